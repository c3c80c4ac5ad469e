package wow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAbilities(t *testing.T) {
	assert.Equal(t, 1000, Default.GCD(100780))
	assert.Equal(t, 20000, Default.Cooldown(119582))
	assert.Equal(t, "Purifying Brew", Default.Name(119582))
	assert.Equal(t, "#1", Default.Name(1))

	cds := Default.Cooldowns()
	assert.Contains(t, cds, 119582)
	assert.NotContains(t, cds, 100780)
}

func TestLoadSkipsBOM(t *testing.T) {
	src := "\xef\xbb\xbfid,name,cooldown,gcd,icon\n1,Foo,3000,1500,foo.jpg\n"

	a, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, Ability{ID: 1, Name: "Foo", Cooldown: 3000, GCD: 1500, Icon: "foo.jpg"}, a[1])
	assert.Equal(t, "https://assets.rpglogs.com/img/warcraft/abilities/foo.jpg", a.IconURL(1))
}

func TestLoadRejectsBadID(t *testing.T) {
	_, err := Load(strings.NewReader("id,name,cooldown,gcd,icon\nx,Foo,0,0,\n"))
	assert.Error(t, err)
}
