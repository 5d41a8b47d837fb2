package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/cppuml/internal/model"
)

func TestTreeSitterAnimalHeader(t *testing.T) {
	t.Parallel()

	recs, err := NewTreeSitter().Extract(animalHeader)
	require.NoError(t, err)
	require.Equal(t, []string{"Animal", "Dog", "Cat", "Zoo"}, names(recs))

	animal := find(t, recs, "Animal")
	var methodNames []string
	for _, m := range animal.Methods {
		methodNames = append(methodNames, m.Name)
	}
	assert.Equal(t, []string{"Animal", "~Animal", "speak", "setName", "getName"}, methodNames)
	assert.True(t, animal.Methods[0].IsConstructor())
	assert.True(t, animal.Methods[1].IsConstructor())
	assert.Equal(t, "void", animal.Methods[2].ReturnType)
	assert.Equal(t, []model.Param{{Name: "name", Type: "const std::string&"}}, animal.Methods[3].Params)
	assert.Equal(t, []model.MemberRecord{
		{Name: "name", Type: "std::string", Visibility: model.Protected},
		{Name: "age", Type: "int", Visibility: model.Protected},
	}, animal.Members)

	assert.Equal(t, []string{"Animal"}, find(t, recs, "Dog").Bases)

	zoo := find(t, recs, "Zoo")
	assert.Equal(t, []model.Param{{Name: "animal", Type: "Animal*"}}, zoo.Methods[0].Params)
	assert.Equal(t, model.MemberRecord{Name: "animals", Type: "std::vector<Animal*>", Visibility: model.Private}, zoo.Members[0])
}

func TestBackendsAgreeOnSample(t *testing.T) {
	t.Parallel()

	h, err := Heuristic{}.Extract(animalHeader)
	require.NoError(t, err)
	ts, err := NewTreeSitter().Extract(animalHeader)
	require.NoError(t, err)
	assert.Equal(t, h, ts)
}

func TestTreeSitterDefaultVisibility(t *testing.T) {
	t.Parallel()

	recs, err := NewTreeSitter().Extract("struct S { int a; };\nclass C { int a; public: Gadget* g; };")
	require.NoError(t, err)
	require.Equal(t, []string{"S", "C"}, names(recs))
	assert.Equal(t, model.Public, recs[0].Members[0].Visibility)
	assert.True(t, recs[0].IsStruct)
	assert.Equal(t, model.Private, recs[1].Members[0].Visibility)
	assert.Equal(t, model.MemberRecord{Name: "g", Type: "Gadget*", Visibility: model.Public}, recs[1].Members[1])
}

func TestTreeSitterEmptySource(t *testing.T) {
	t.Parallel()

	recs, err := NewTreeSitter().ExtractContext(context.Background(), "  \n")
	require.NoError(t, err)
	assert.Empty(t, recs)
}
