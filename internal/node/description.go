package node

import (
	"github.com/loykin/xentral/internal/credentials"
	"github.com/loykin/xentral/internal/dispatch"
)

type Option struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type DisplayOptions struct {
	Show map[string][]string `json:"show" yaml:"show"`
}

// Property is one node parameter as a host renders it.
type Property struct {
	DisplayName    string          `json:"displayName" yaml:"displayName"`
	Name           string          `json:"name" yaml:"name"`
	Type           string          `json:"type" yaml:"type"`
	Options        []Option        `json:"options,omitempty" yaml:"options,omitempty"`
	Default        string          `json:"default" yaml:"default"`
	Required       bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty"`
	DisplayOptions *DisplayOptions `json:"displayOptions,omitempty" yaml:"displayOptions,omitempty"`
}

type CredentialRef struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required" yaml:"required"`
}

// Description is the declarative node schema.
type Description struct {
	DisplayName string                  `json:"displayName" yaml:"displayName"`
	Name        string                  `json:"name" yaml:"name"`
	Group       []string                `json:"group" yaml:"group"`
	Version     int                     `json:"version" yaml:"version"`
	Description string                  `json:"description" yaml:"description"`
	Defaults    map[string]string       `json:"defaults" yaml:"defaults"`
	Inputs      []string                `json:"inputs" yaml:"inputs"`
	Outputs     []string                `json:"outputs" yaml:"outputs"`
	Credentials []CredentialRef         `json:"credentials" yaml:"credentials"`
	Properties  []Property              `json:"properties" yaml:"properties"`
	Credential  *credentials.Descriptor `json:"credentialType,omitempty" yaml:"credentialType,omitempty"`
}

type label struct{ name, noun string }

var resourceLabels = map[string]label{
	dispatch.ResourceOrder:         {"Order(v1)", "order"},
	dispatch.ResourceAddress:       {"Address(v1/v2)", "address"},
	dispatch.ResourceRechnungen:    {"Rechnungen(v1)", "invoice"},
	dispatch.ResourceAngebote:      {"Angebote(v1)", "quote"},
	dispatch.ResourceAuftraege:     {"Aufträge(v1)", "order document"},
	dispatch.ResourceLieferscheine: {"Lieferscheine(v1)", "delivery note"},
	dispatch.ResourceGutschriften:  {"Gutschriften(v1)", "credit note"},
}

var operationLabels = map[string]string{
	dispatch.OpCreate:  "Create",
	dispatch.OpUpdate:  "Update",
	dispatch.OpGet:     "Get",
	dispatch.OpGetAll:  "Get All",
	dispatch.OpGetByID: "Get by ID",
}

func operationOption(r dispatch.Route) Option {
	name := operationLabels[r.Operation]
	if r.Resource != dispatch.ResourceOrder {
		name += "(" + apiVersion(r.Template) + ")"
	}
	noun := resourceLabels[r.Resource].noun
	var desc string
	switch r.Operation {
	case dispatch.OpCreate:
		desc = "Create a new " + noun
	case dispatch.OpUpdate:
		desc = "Update an existing " + noun
	case dispatch.OpGet:
		desc = "Get data of an " + noun
	case dispatch.OpGetAll:
		desc = "List " + noun + "s"
	case dispatch.OpGetByID:
		desc = "Get a single " + noun
	}
	return Option{Name: name, Value: r.Operation, Description: desc}
}

func apiVersion(path string) string {
	if len(path) >= 7 && path[:5] == "/api/" && path[5] == 'v' {
		return path[5:7]
	}
	return "v1"
}

func show(r dispatch.Route) *DisplayOptions {
	return &DisplayOptions{Show: map[string][]string{
		ParamResource:  {r.Resource},
		ParamOperation: {r.Operation},
	}}
}

// Describe builds the node description from the dispatch table, so every
// selectable operation has exactly the fields its route reads.
func Describe() Description {
	resources := dispatch.Resources()
	resOpts := make([]Option, 0, len(resources))
	for _, r := range resources {
		resOpts = append(resOpts, Option{Name: resourceLabels[r].name, Value: r})
	}

	props := []Property{{
		DisplayName: "Resource",
		Name:        ParamResource,
		Type:        "options",
		Options:     resOpts,
		Default:     resources[0],
		Description: "The resource to operate on.",
	}}

	for _, res := range resources {
		routes := dispatch.Operations(res)
		opts := make([]Option, 0, len(routes))
		for _, r := range routes {
			opts = append(opts, operationOption(r))
		}
		props = append(props, Property{
			DisplayName:    "Operation",
			Name:           ParamOperation,
			Type:           "options",
			Options:        opts,
			Default:        routes[0].Operation,
			Description:    "The operation to perform.",
			DisplayOptions: &DisplayOptions{Show: map[string][]string{ParamResource: {res}}},
		})
		for _, r := range routes {
			props = append(props, fieldsFor(r)...)
		}
	}

	cd := credentials.Describe()
	return Description{
		DisplayName: "Xentral",
		Name:        "xentral",
		Group:       []string{"transform"},
		Version:     1,
		Description: "Xentral CRM Node",
		Defaults:    map[string]string{"name": "Xentral", "color": "#42b8c5"},
		Inputs:      []string{"main"},
		Outputs:     []string{"main"},
		Credentials: []CredentialRef{{Name: credentials.Name, Required: true}},
		Properties:  props,
		Credential:  &cd,
	}
}

func fieldsFor(r dispatch.Route) []Property {
	noun := resourceLabels[r.Resource].noun
	var out []Property
	if r.NeedsID() {
		out = append(out, Property{
			DisplayName:    "ID",
			Name:           dispatch.ParamID,
			Type:           "string",
			Required:       true,
			Description:    "ID of the " + noun,
			DisplayOptions: show(r),
		})
	}
	if r.TakesData() {
		desc := "Data of the " + noun + " to " + r.Operation + "."
		if r.Operation == dispatch.OpGet {
			desc = "Lookup data of the " + noun + "."
		}
		out = append(out, Property{
			DisplayName:    "Data",
			Name:           dispatch.ParamData,
			Type:           "string",
			Required:       true,
			Description:    desc,
			DisplayOptions: show(r),
		})
	}
	if r.TakesQuery() {
		out = append(out, Property{
			DisplayName:    "Query Parameters",
			Name:           dispatch.ParamQuery,
			Type:           "json",
			Default:        "{}",
			Description:    "Filter, paging and sorting parameters sent as query string.",
			DisplayOptions: show(r),
		})
	}
	return out
}
