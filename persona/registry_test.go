package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/relay"
)

func TestResolve(t *testing.T) {
	r := NewRegistry(DefaultProfiles("http://localhost:8080"))

	t.Run("known persona", func(t *testing.T) {
		p, err := r.Resolve("cherry")
		require.NoError(t, err)
		assert.Equal(t, "cherry", p.ID)
		assert.Equal(t, "openai", p.Primary.Provider)
		require.NotNil(t, p.Fallback)
		assert.Equal(t, "anthropic", p.Fallback.Provider)
	})

	t.Run("unknown persona", func(t *testing.T) {
		_, err := r.Resolve("nobody")
		var unknown *relay.UnknownPersonaError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "nobody", unknown.Persona)
	})
}

func TestResolveReturnsACopy(t *testing.T) {
	r := NewRegistry(DefaultProfiles("http://localhost:8080"))

	p1, err := r.Resolve("cherry")
	require.NoError(t, err)
	p1.Temperature = 0.0
	p1.UseCases[0] = relay.UseCaseDeepTalk

	p2, err := r.Resolve("cherry")
	require.NoError(t, err)
	assert.Equal(t, 0.9, p2.Temperature)
	assert.Equal(t, relay.UseCaseCasualChat, p2.UseCases[0])
}

func TestRecommendationsFor(t *testing.T) {
	r := NewRegistry(DefaultProfiles("http://localhost:8080"))

	rec, err := r.RecommendationsFor("cherry")
	require.NoError(t, err)
	assert.Contains(t, rec.UseCases, relay.UseCaseCasualChat)
	assert.Equal(t, 0.9, rec.Temperature)

	_, err = r.RecommendationsFor("nobody")
	assert.Error(t, err)
}

func TestPersonasSorted(t *testing.T) {
	r := NewRegistry(DefaultProfiles("http://localhost:8080"))
	assert.Equal(t, []string{"cherry", "haru", "luna", "sophia"}, r.Personas())
}

func TestLunaHasNoFallback(t *testing.T) {
	r := NewRegistry(DefaultProfiles("http://localhost:8080"))
	p, err := r.Resolve("luna")
	require.NoError(t, err)
	assert.Nil(t, p.Fallback)
}
