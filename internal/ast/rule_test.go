package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleWalkVisitsDepthFirst(t *testing.T) {
	var order []string
	root := &Rule{
		Message: "root",
		Children: []*Rule{
			{Message: "child1", Children: []*Rule{{Message: "grandchild"}}},
			{Message: "child2"},
		},
	}

	root.Walk(func(r *Rule) { order = append(order, r.Message) })

	assert.Equal(t, []string{"root", "child1", "grandchild", "child2"}, order)
}

func TestRuleWalkNilIsNoop(t *testing.T) {
	var r *Rule
	r.Walk(func(*Rule) { t.Error("fn should not be called on a nil rule") })
}

func TestOffsetAdjustOpApply(t *testing.T) {
	tests := []struct {
		op   AdjustOp
		ptr  int64
		adj  int64
		want int64
	}{
		{AdjustAdd, 10, 4, 14},
		{AdjustSub, 10, 4, 6},
		{AdjustMul, 10, 4, 40},
		{AdjustDiv, 10, 4, 2},
		{AdjustDiv, 10, 0, 10},
		{AdjustAnd, 0xFF, 0x0F, 0x0F},
		{AdjustOr, 0xF0, 0x0F, 0xFF},
		{AdjustXor, 0xFF, 0x0F, 0xF0},
		{AdjustNone, 10, 4, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.Apply(tt.ptr, tt.adj), "%v.Apply(%d, %d)", tt.op, tt.ptr, tt.adj)
	}
}

func TestOffsetConstructors(t *testing.T) {
	a := Absolute(5)
	assert.Equal(t, OffsetAbsolute, a.Kind)
	assert.Equal(t, int64(5), a.Value)

	e := FromEnd(-5)
	assert.Equal(t, OffsetFromEnd, e.Kind)
	assert.Equal(t, int64(-5), e.Value)

	r := Relative(3)
	assert.Equal(t, OffsetRelative, r.Kind)
	assert.Equal(t, int64(3), r.Value)
}

func TestDatabaseAddTopLevelRoutesNamedRules(t *testing.T) {
	db := NewDatabase()
	db.AddTopLevel(&Rule{Message: "plain"})
	db.AddTopLevel(&Rule{Name: "helper", Message: "named"})

	require.Len(t, db.Rules, 1)
	assert.Equal(t, "plain", db.Rules[0].Message)

	r, ok := db.Named("helper")
	require.True(t, ok, `Named("helper") not found`)
	assert.Equal(t, "named", r.Message)

	_, ok = db.Named("missing")
	assert.False(t, ok, `Named("missing") unexpectedly found`)
}

func TestDatabaseMerge(t *testing.T) {
	a := NewDatabase()
	a.AddTopLevel(&Rule{Message: "a"})
	a.Files = []string{"a.magic"}

	b := NewDatabase()
	b.AddTopLevel(&Rule{Message: "b"})
	b.AddTopLevel(&Rule{Name: "shared", Message: "b-named"})
	b.Files = []string{"b.magic"}

	a.Merge(b)

	assert.Len(t, a.Rules, 2)
	assert.Len(t, a.Files, 2)
	_, ok := a.Named("shared")
	assert.True(t, ok, "merged db should carry over named rules from the other database")
}

func TestDatabaseMergeNilIsNoop(t *testing.T) {
	db := NewDatabase()
	db.AddTopLevel(&Rule{Message: "a"})
	db.Merge(nil)
	assert.Len(t, db.Rules, 1)
}
