package roles

import (
	"radgate-service/internal/pkg/utils"

	"github.com/casbin/casbin/v2"
)

// NewEnforcer loads the role-to-route policy from the model and policy files.
// The policy is deployment configuration: changing the matrix means shipping
// a new CSV, there is no runtime mutation endpoint.
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	enforcer, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}

	enforcer.AddFunction("pathMatch", utils.PathMatchFunc)

	return enforcer, nil
}
