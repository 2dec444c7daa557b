package routing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spec-kit/hrms-service/internal/domain"
)

var placeholderName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table is an ordered list of routes. Build it once at startup; matching never mutates it.
type Table struct {
	routes []Route
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Register compiles template and appends the route. A non-empty minRole implies requiresAuth.
func (t *Table) Register(method, template string, handler Handler, requiresAuth bool, minRole domain.Role) error {
	if handler == nil {
		return fmt.Errorf("route %s %s: nil handler", method, template)
	}
	if minRole != "" && !minRole.Valid() {
		return fmt.Errorf("route %s %s: unknown role %q", method, template, minRole)
	}
	pattern, params, err := compile(template)
	if err != nil {
		return fmt.Errorf("route %s %s: %w", method, template, err)
	}
	t.routes = append(t.routes, Route{
		Method:       strings.ToUpper(method),
		Template:     template,
		Handler:      handler,
		RequiresAuth: requiresAuth || minRole != "",
		MinRole:      minRole,
		pattern:      pattern,
		params:       params,
	})
	return nil
}

// MustRegister is Register for startup wiring; it panics on a bad template.
func (t *Table) MustRegister(method, template string, handler Handler, requiresAuth bool, minRole domain.Role) {
	if err := t.Register(method, template, handler, requiresAuth, minRole); err != nil {
		panic(err)
	}
}

// Match returns the first route whose method and pattern both match, along with the
// captured parameters in template order. Any query string is ignored.
func (t *Table) Match(method, path string) (*Route, []string, bool) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for i := range t.routes {
		route := &t.routes[i]
		if route.Method != method {
			continue
		}
		m := route.pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		return route, m[1:], true
	}
	return nil, nil, false
}

// Routes returns a copy of the registered routes in order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// compile turns /a/{x}/b into ^/a/([^/]+)/b$. Literal text is quoted, so
// characters such as '.' match only themselves.
func compile(template string) (*regexp.Regexp, []string, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, nil, fmt.Errorf("template must start with '/'")
	}

	var (
		b      strings.Builder
		params []string
		seen   = map[string]bool{}
		rest   = template
	)
	b.WriteString("^")
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.ContainsRune(rest, '}') {
				return nil, nil, fmt.Errorf("unbalanced '}'")
			}
			b.WriteString(regexp.QuoteMeta(rest))
			break
		}
		literal := rest[:open]
		if strings.ContainsRune(literal, '}') {
			return nil, nil, fmt.Errorf("unbalanced '}'")
		}
		b.WriteString(regexp.QuoteMeta(literal))

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, nil, fmt.Errorf("unterminated placeholder")
		}
		name := rest[open+1 : open+end]
		if !placeholderName.MatchString(name) {
			return nil, nil, fmt.Errorf("invalid placeholder %q", name)
		}
		if seen[name] {
			return nil, nil, fmt.Errorf("duplicate placeholder %q", name)
		}
		seen[name] = true
		params = append(params, name)
		b.WriteString("([^/]+)")
		rest = rest[open+end+1:]
	}
	b.WriteString("$")

	pattern, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, err
	}
	return pattern, params, nil
}
