package node

import (
	"context"
	"testing"

	"github.com/loykin/xentral/internal/dispatch"
	"github.com/loykin/xentral/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_MatchesDispatchTable(t *testing.T) {
	d := Describe()
	assert.Equal(t, "xentral", d.Name)
	require.Len(t, d.Credentials, 1)
	assert.Equal(t, "xentral", d.Credentials[0].Name)

	var resourceProp *Property
	opsByResource := map[string][]string{}
	fields := map[string]map[string]bool{}
	for i := range d.Properties {
		p := d.Properties[i]
		switch p.Name {
		case ParamResource:
			resourceProp = &d.Properties[i]
		case ParamOperation:
			res := p.DisplayOptions.Show[ParamResource][0]
			for _, o := range p.Options {
				opsByResource[res] = append(opsByResource[res], o.Value)
			}
		default:
			key := p.DisplayOptions.Show[ParamResource][0] + ":" + p.DisplayOptions.Show[ParamOperation][0]
			if fields[key] == nil {
				fields[key] = map[string]bool{}
			}
			fields[key][p.Name] = true
		}
	}

	require.NotNil(t, resourceProp)
	var resources []string
	for _, o := range resourceProp.Options {
		resources = append(resources, o.Value)
	}
	assert.Equal(t, dispatch.Resources(), resources)

	for _, r := range dispatch.Routes() {
		assert.Contains(t, opsByResource[r.Resource], r.Operation)
		key := r.Resource + ":" + r.Operation
		assert.Equal(t, r.NeedsID(), fields[key][dispatch.ParamID], "%s id", key)
		assert.Equal(t, r.TakesData(), fields[key][dispatch.ParamData], "%s data", key)
		assert.Equal(t, r.TakesQuery(), fields[key][dispatch.ParamQuery], "%s query", key)
	}
}

func TestDescribe_OperationLabels(t *testing.T) {
	var labels []string
	for _, p := range Describe().Properties {
		if p.Name == ParamOperation && p.DisplayOptions.Show[ParamResource][0] == dispatch.ResourceAddress {
			for _, o := range p.Options {
				labels = append(labels, o.Name)
			}
		}
	}
	assert.Equal(t, []string{"Create(v1)", "Update(v1)", "Get All(v2)", "Get by ID(v2)"}, labels)
}

func TestStaticHost_ParameterPrecedence(t *testing.T) {
	h := &StaticHost{
		Params: map[string]value.Value{"resource": value.String("address"), "id": value.Int(1)},
		Items:  []map[string]value.Value{{"id": value.Int(7)}, {}},
	}
	require.Len(t, h.InputData(), 2)

	v, err := h.NodeParameter("id", 0)
	require.NoError(t, err)
	assert.Equal(t, "7", v.Text())

	v, err = h.NodeParameter("id", 1)
	require.NoError(t, err)
	assert.Equal(t, "1", v.Text())

	_, err = h.NodeParameter("data", 1)
	assert.ErrorIs(t, err, dispatch.ErrParamNotFound)

	_, err = h.NodeParameter("id", 2)
	assert.Error(t, err)
}

func TestStaticHost_SingleItemWithoutItems(t *testing.T) {
	h := &StaticHost{Params: map[string]value.Value{"resource": value.String("order")}}
	items := h.InputData()
	require.Len(t, items, 1)
	assert.Equal(t, "{}", items[0].JSON.String())

	v, err := h.NodeParameter("resource", 0)
	require.NoError(t, err)
	assert.Equal(t, "order", v.Text())

	creds, err := h.Credentials(context.Background(), "other")
	assert.NoError(t, err)
	assert.Nil(t, creds)
}
