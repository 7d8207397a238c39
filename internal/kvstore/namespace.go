package kvstore

import "context"

// Namespaced scopes a shared store to one device. Close is a no-op; the
// underlying store is owned by whoever opened it.
type Namespaced struct {
	inner  Store
	prefix string
}

func WithNamespace(inner Store, ns string) *Namespaced {
	return &Namespaced{inner: inner, prefix: ns + ":"}
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

func (n *Namespaced) SetMany(ctx context.Context, entries map[string]string) error {
	scoped := make(map[string]string, len(entries))
	for k, v := range entries {
		if k == "" {
			return ErrEmptyKey
		}
		scoped[n.prefix+k] = v
	}
	return n.inner.SetMany(ctx, scoped)
}

func (n *Namespaced) Close() error { return nil }
