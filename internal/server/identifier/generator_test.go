package identifier

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var defaultPattern = regexp.MustCompile(`^emp[0-9]{5,7}$`)

func TestGenerate_DefaultShape(t *testing.T) {
	t.Parallel()

	g := NewGenerator("", 0)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		if !defaultPattern.MatchString(id) {
			t.Fatalf("unexpected id %q", id)
		}
		if len(id) > DefaultMaxLength {
			t.Fatalf("id %q longer than %d", id, DefaultMaxLength)
		}
	}
}

func TestGenerate_SuffixBounds(t *testing.T) {
	t.Parallel()

	low := NewGenerator("emp", 10, WithIntN(func(n int) int { return 0 }))
	assert.Equal(t, "emp10000", low.Generate())

	high := NewGenerator("emp", 10, WithIntN(func(n int) int { return n - 1 }))
	assert.Equal(t, "emp9999999", high.Generate())
}

func TestGenerate_Truncates(t *testing.T) {
	t.Parallel()

	g := NewGenerator("employee", 10, WithIntN(func(n int) int { return n - 1 }))
	id := g.Generate()
	assert.Equal(t, "employee99", id)
	assert.Len(t, id, 10)
}

func TestGenerate_UsesInjectedSource(t *testing.T) {
	t.Parallel()

	seq := []int{0, 1, 2}
	i := 0
	g := NewGenerator("x", 20, WithIntN(func(n int) int {
		v := seq[i%len(seq)]
		i++
		return v
	}))

	assert.Equal(t, []string{"x10000", "x10001", "x10002", "x10000"},
		[]string{g.Generate(), g.Generate(), g.Generate(), g.Generate()})
}

func TestWithIntN_NilKeepsDefault(t *testing.T) {
	t.Parallel()

	g := NewGenerator("emp", 10, WithIntN(nil))
	assert.Regexp(t, defaultPattern, g.Generate())
}
