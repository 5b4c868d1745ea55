package util

import (
	"biokuiz/internal/model"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

func SetPrincipal(c *gin.Context, p *model.Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the caller resolved by the session middleware, or nil.
func GetPrincipal(c *gin.Context) *model.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	p, ok := v.(*model.Principal)
	if !ok {
		return nil
	}
	return p
}
