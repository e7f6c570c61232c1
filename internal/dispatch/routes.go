package dispatch

import (
	"net/http"
	"strings"
)

// Generation selects which of the two API families a request targets.
type Generation int

const (
	// Legacy is the verb-style family (/api/AuftragCreate, ...) with string typed fields.
	Legacy Generation = iota
	// Modern is the REST family under /api/v1 and /api/v2.
	Modern
)

func (g Generation) String() string {
	if g == Legacy {
		return "legacy"
	}
	return "modern"
}

// MarshalText lets Generation render as its name in JSON and YAML.
func (g Generation) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

const (
	ResourceOrder         = "order"
	ResourceAddress       = "address"
	ResourceRechnungen    = "rechnungen"
	ResourceAngebote      = "angebote"
	ResourceAuftraege     = "auftraege"
	ResourceLieferscheine = "lieferscheine"
	ResourceGutschriften  = "gutschriften"
)

const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpGet     = "get"
	OpGetAll  = "getAll"
	OpGetByID = "getById"
)

// Belege are the document resources sharing one getAll/getById shape.
var Belege = []string{ResourceRechnungen, ResourceAngebote, ResourceAuftraege, ResourceLieferscheine, ResourceGutschriften}

type bodyShape int

const (
	noBody bodyShape = iota
	wrappedData
	rawData
)

// Route is one row of the dispatch table.
type Route struct {
	Resource   string     `json:"resource" yaml:"resource"`
	Operation  string     `json:"operation" yaml:"operation"`
	Method     string     `json:"method" yaml:"method"`
	Template   string     `json:"path" yaml:"path"`
	Generation Generation `json:"generation" yaml:"generation"`
	body       bodyShape
	query      bool
}

// NeedsID reports whether the path embeds the id parameter.
func (r Route) NeedsID() bool { return strings.Contains(r.Template, "{id}") }

// TakesData reports whether the body is built from the data parameter.
func (r Route) TakesData() bool { return r.body != noBody }

// TakesQuery reports whether queryParameters are forwarded.
func (r Route) TakesQuery() bool { return r.query }

var (
	routes []Route
	index  = map[string]map[string]Route{}
)

func add(r Route) {
	routes = append(routes, r)
	ops, ok := index[r.Resource]
	if !ok {
		ops = map[string]Route{}
		index[r.Resource] = ops
	}
	ops[r.Operation] = r
}

func init() {
	add(Route{Resource: ResourceOrder, Operation: OpCreate, Method: http.MethodPost, Template: "/api/AuftragCreate", Generation: Legacy, body: wrappedData})
	add(Route{Resource: ResourceOrder, Operation: OpUpdate, Method: http.MethodPost, Template: "/api/AuftragEdit", Generation: Legacy, body: wrappedData})
	add(Route{Resource: ResourceOrder, Operation: OpGet, Method: http.MethodPost, Template: "/api/AuftragGet", Generation: Legacy, body: wrappedData})

	add(Route{Resource: ResourceAddress, Operation: OpCreate, Method: http.MethodPost, Template: "/api/v1/adressen", Generation: Modern, body: rawData})
	add(Route{Resource: ResourceAddress, Operation: OpUpdate, Method: http.MethodPut, Template: "/api/v1/adressen/{id}", Generation: Modern, body: rawData})
	add(Route{Resource: ResourceAddress, Operation: OpGetAll, Method: http.MethodGet, Template: "/api/v2/adressen", Generation: Modern, query: true})
	add(Route{Resource: ResourceAddress, Operation: OpGetByID, Method: http.MethodGet, Template: "/api/v2/adressen/{id}", Generation: Modern})

	for _, b := range Belege {
		add(Route{Resource: b, Operation: OpGetByID, Method: http.MethodGet, Template: "/api/v1/belege/" + b + "/{id}", Generation: Modern})
		add(Route{Resource: b, Operation: OpGetAll, Method: http.MethodGet, Template: "/api/v1/belege/" + b, Generation: Modern, query: true})
	}
}

// Routes returns the dispatch table in declaration order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Resources lists the known resources in declaration order.
func Resources() []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range routes {
		if !seen[r.Resource] {
			seen[r.Resource] = true
			out = append(out, r.Resource)
		}
	}
	return out
}

// Operations lists the operations of a resource in declaration order.
func Operations(resource string) []Route {
	var out []Route
	for _, r := range routes {
		if r.Resource == resource {
			out = append(out, r)
		}
	}
	return out
}

// Lookup finds the route for a selection.
func Lookup(sel Selection) (Route, error) {
	ops, ok := index[sel.Resource]
	if !ok {
		return Route{}, &UnknownResourceError{Resource: sel.Resource}
	}
	r, ok := ops[sel.Operation]
	if !ok {
		return Route{}, &UnknownOperationError{Resource: sel.Resource, Operation: sel.Operation}
	}
	return r, nil
}
