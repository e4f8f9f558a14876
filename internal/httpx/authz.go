package httpx

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// storefrontPolicy lists what each role may call. Admins inherit the
// customer routes.
var storefrontPolicy = [][]string{
	{RoleCustomer, "/checkout", http.MethodPost},
	{RoleCustomer, "/buy-now/:product_id", http.MethodPost},
	{RoleCustomer, "/buy-now", http.MethodDelete},
	{RoleCustomer, "/orders", http.MethodGet},
	{RoleCustomer, "/orders/:id", http.MethodGet},
	{RoleCustomer, "/orders/:id/:action", http.MethodPost},
	{RoleCustomer, "/products/:id/comments", http.MethodPost},
	{RoleCustomer, "/comments/:id", http.MethodDelete},
	{RoleAdmin, "/admin/*", "*"},
}

// NewEnforcer builds the in-memory RBAC enforcer for the order service.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "casbin model")
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "casbin enforcer")
	}
	if _, err := e.AddPolicies(storefrontPolicy); err != nil {
		return nil, errors.Wrap(err, "casbin policy")
	}
	if _, err := e.AddGroupingPolicy(RoleAdmin, RoleCustomer); err != nil {
		return nil, errors.Wrap(err, "casbin roles")
	}
	return e, nil
}

// Authorize checks the caller's role against the request path and method.
// It must run after Identify.
func Authorize(e *casbin.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		allowed, err := e.Enforce(id.Role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			log.WithError(err).WithField("rid", RID(c)).Error("[authz] enforce")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
