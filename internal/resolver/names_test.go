package resolver

import (
	"testing"

	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPortalNames(t *testing.T) {
	b := dsl.New("g")
	b.Sender("1", "zeta").Input("v", "INT")
	b.Sender("2", "alpha").Input("v", "INT")
	b.Sender("3", "alpha").Input("v", "INT")
	b.Sender("4", "muted").Input("v", "INT").Muted()
	b.Sender("5", domain.PlaceholderTypeName).Input("v", "INT")

	r := New()
	assert.Equal(t, []string{"alpha", "zeta"}, r.ListPortalNames(b.Graph()))
	assert.Equal(t, []string{"alpha", "zeta"}, r.Choices(b.Graph()))
}

func TestChoices_FallbackToPlaceholder(t *testing.T) {
	g := dsl.New("empty").Graph()

	assert.Equal(t, []string{}, New().ListPortalNames(g))
	assert.Equal(t, []string{domain.PlaceholderRefresh}, New().Choices(g))
	assert.Equal(t, []string{"none"}, New(WithPlaceholders("none")).Choices(g))
	assert.Empty(t, New(WithPlaceholders()).Choices(g))
}

func TestUsedPortals(t *testing.T) {
	b := dsl.New("g")
	b.Node("0").Output("IMAGE", "IMAGE")
	b.Sender("1", "img").Input("v", domain.TypeAny).Input("m", "MASK")
	b.Sender("2", "unused").Input("v", "INT")
	b.Sender("3", "dup").Input("v", "INT")
	b.Sender("4", "dup").Input("v", "FLOAT")
	b.Receiver("5", "img")
	b.Receiver("6", "dup")
	b.Receiver("7", "ghost")
	b.Receiver("8", "unused").Muted()
	b.Link("0", 0, "1", 0)

	used := New().UsedPortals(b.Graph())

	require.Len(t, used, 2)
	assert.Equal(t, "dup", used[0].Name)
	assert.Equal(t, []domain.TypeTag{"INT", "FLOAT"}, used[0].Types)
	assert.Equal(t, "img", used[1].Name)
	assert.Equal(t, []domain.TypeTag{"IMAGE", "MASK"}, used[1].Types)
}
