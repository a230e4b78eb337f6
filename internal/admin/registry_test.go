package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	course, ok := r.Lookup(KindCourse)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "pub_date"}, course.ListDisplay)
	assert.Equal(t, []string{"pub_date"}, course.ListFilter)
	assert.Equal(t, []string{"name", "description"}, course.SearchFields)
	assert.Equal(t, []Inline{{Kind: KindLesson, Extra: 5}}, course.Inlines)

	question, ok := r.Lookup(KindQuestion)
	require.True(t, ok)
	assert.Equal(t, []Inline{{Kind: KindChoice, Extra: 4}}, question.Inlines)

	assert.True(t, r.Allows(KindSubmission, OpRead))
	assert.False(t, r.Allows(KindSubmission, OpUpdate))
	assert.False(t, r.Allows(KindSubmission, OpDelete))
	assert.False(t, r.Allows(KindChoice, OpUpdate))
	assert.False(t, r.Allows(Kind("enrollment"), OpList))

	assert.Len(t, r.Descriptors(), 7)
	assert.Equal(t, KindChoice, r.Descriptors()[0].Kind)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Descriptor{Kind: KindCourse, Operations: crud}))

	assert.Error(t, r.Register(Descriptor{Kind: KindCourse}))
	assert.Error(t, r.Register(Descriptor{}))
	assert.Error(t, r.Register(Descriptor{Kind: KindLesson, Inlines: []Inline{{Kind: KindLesson}}}))
}
