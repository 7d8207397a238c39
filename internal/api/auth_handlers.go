package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/simulate"
)

func (h *Handler) login(c *gin.Context) {
	var form auth.LoginForm
	if err := bind(c, &form); err != nil {
		h.fail(c, err)
		return
	}

	sess, err := device(c).Auth.Login(c.Request.Context(), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, sess)
}

func (h *Handler) register(c *gin.Context) {
	var form auth.RegisterForm
	if err := bind(c, &form); err != nil {
		h.fail(c, err)
		return
	}

	sess, err := device(c).Auth.Register(c.Request.Context(), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, sess)
}

func (h *Handler) socialLogin(c *gin.Context) {
	sess, err := device(c).Auth.SocialLogin(c.Request.Context(), c.Param("provider"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, sess)
}

func (h *Handler) continueAsGuest(c *gin.Context) {
	dev := device(c)
	if err := dev.Auth.ContinueAsGuest(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.session(c)
}

func (h *Handler) logout(c *gin.Context) {
	dev := device(c)
	if err := dev.Auth.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.session(c)
}

func (h *Handler) session(c *gin.Context) {
	dev := device(c)
	sess, err := dev.Auth.Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"session": sess,
		"pending": gin.H{
			"login":    dev.Latency.Pending(simulate.OpLogin),
			"register": dev.Latency.Pending(simulate.OpRegister),
			"social":   dev.Latency.Pending(simulate.OpSocial),
		},
	})
}

func (h *Handler) passwordStrength(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, auth.PasswordStrength(req.Password))
}
