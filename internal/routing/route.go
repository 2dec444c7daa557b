// Package routing holds the route table: method plus path templates such as
// /employees/{id}/documents/{docId}, matched first-match-wins in registration order.
package routing

import (
	"regexp"

	"github.com/spec-kit/hrms-service/internal/domain"
)

// Handler serves one matched request.
type Handler func(*Request) (*Result, error)

// Route binds a method and path template to a handler and its access requirements.
// An empty MinRole means any authenticated caller, or anyone when RequiresAuth is false.
type Route struct {
	Method       string
	Template     string
	Handler      Handler
	RequiresAuth bool
	MinRole      domain.Role

	pattern *regexp.Regexp
	params  []string
}

// ParamNames returns the placeholder names in template order.
func (r *Route) ParamNames() []string {
	return append([]string(nil), r.params...)
}
