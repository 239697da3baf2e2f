package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func via(entities []string, from []string, order int, kind ViaKind) Via {
	return Via{Entities: setOf(entities...), From: setOf(from...), Order: order, Kind: kind}
}

func dest(entities []string, from []string, kind DestinationKind) Destination {
	return Destination{Entities: setOf(entities...), From: setOf(from...), Kind: kind}
}

func setOf(uris ...string) EntitySet {
	set := EntitySet{}
	for _, u := range uris {
		set.Add(SimpleEntity(u))
	}
	return set
}

func TestMergeOrigins(t *testing.T) {
	merged := MergeOrigins([]Origin{
		{Entities: setOf("a")},
		{Entities: setOf("b")},
		{Entities: setOf("a")},
	})
	assert.True(t, merged.Entities.Equal(setOf("a", "b")))

	assert.Empty(t, MergeOrigins(nil).Entities)
}

func TestMergeVias_BySuccessorThenPredecessor(t *testing.T) {
	merged := MergeVias([]Via{
		via([]string{"b"}, []string{"a1"}, 1, ViaAxon),
		via([]string{"b"}, []string{"a2"}, 3, ViaAxon),
		via([]string{"c"}, []string{"a1", "a2"}, 2, ViaAxon),
	})

	// Pass 1 joins both "b" vias (from {a1,a2}, order 3); pass 2 then joins
	// them with "c", which has the same predecessors.
	require.Len(t, merged, 1)
	assert.True(t, merged[0].Entities.Equal(setOf("b", "c")))
	assert.True(t, merged[0].From.Equal(setOf("a1", "a2")))
	assert.Equal(t, 0, merged[0].Order)
}

func TestMergeVias_KindSeparatesGroups(t *testing.T) {
	merged := MergeVias([]Via{
		via([]string{"b"}, []string{"a"}, 1, ViaAxon),
		via([]string{"b"}, []string{"a"}, 1, ViaDendrite),
	})
	assert.Len(t, merged, 2)
}

func TestMergeVias_DenseOrders(t *testing.T) {
	merged := MergeVias([]Via{
		via([]string{"d"}, []string{"c"}, 7, ViaAxon),
		via([]string{"b"}, []string{"a"}, 1, ViaAxon),
		via([]string{"c"}, []string{"b"}, 4, ViaAxon),
		via([]string{"e"}, []string{"x"}, 4, ViaDendrite),
	})

	require.Len(t, merged, 4)
	orders := make([]int, len(merged))
	for i, v := range merged {
		orders[i] = v.Order
	}
	assert.Equal(t, []int{0, 1, 2, 3}, orders)
	assert.True(t, merged[0].Entities.Equal(setOf("b")))
	assert.True(t, merged[1].Entities.Equal(setOf("c")), "ties keep discovery order")
	assert.True(t, merged[2].Entities.Equal(setOf("e")))
	assert.True(t, merged[3].Entities.Equal(setOf("d")))
}

func TestMergeVias_Idempotent(t *testing.T) {
	input := []Via{
		via([]string{"b1"}, []string{"a"}, 1, ViaAxon),
		via([]string{"b2"}, []string{"a"}, 1, ViaAxon),
		via([]string{"c"}, []string{"b1"}, 2, ViaAxon),
		via([]string{"c"}, []string{"b2"}, 2, ViaAxon),
		via([]string{"d"}, []string{"c"}, 3, ViaDendrite),
	}
	once := MergeVias(input)
	twice := MergeVias(once)
	assert.Equal(t, once, twice)
}

func TestMergeVias_NoDuplicateEntityAndFromPairs(t *testing.T) {
	merged := MergeVias([]Via{
		via([]string{"b"}, []string{"a"}, 1, ViaAxon),
		via([]string{"b"}, []string{"a"}, 2, ViaAxon),
		via([]string{"b"}, []string{"a"}, 1, ViaAxon),
	})
	require.Len(t, merged, 1)
	assert.Equal(t, 0, merged[0].Order)
}

func TestMergeDestinations(t *testing.T) {
	t.Run("by predecessor then successor", func(t *testing.T) {
		merged := MergeDestinations([]Destination{
			dest([]string{"c1"}, []string{"b"}, DestinationAxonTerminal),
			dest([]string{"c2"}, []string{"b"}, DestinationAfferentTerminal),
			dest([]string{"c1", "c2"}, []string{"x"}, DestinationAxonTerminal),
		})

		// Pass 1 joins the two "b" destinations keeping the first kind;
		// pass 2 then joins them with the "x" destination.
		require.Len(t, merged, 1)
		assert.True(t, merged[0].Entities.Equal(setOf("c1", "c2")))
		assert.True(t, merged[0].From.Equal(setOf("b", "x")))
		assert.Equal(t, DestinationAxonTerminal, merged[0].Kind)
	})

	t.Run("reconverging branches", func(t *testing.T) {
		merged := MergeDestinations([]Destination{
			dest([]string{"c"}, []string{"b1"}, DestinationAxonTerminal),
			dest([]string{"c"}, []string{"b2"}, DestinationAxonTerminal),
		})
		require.Len(t, merged, 1)
		assert.True(t, merged[0].From.Equal(setOf("b1", "b2")))
	})

	t.Run("idempotent", func(t *testing.T) {
		input := []Destination{
			dest([]string{"c"}, []string{"b1"}, DestinationAxonTerminal),
			dest([]string{"d"}, []string{"b2"}, DestinationAfferentTerminal),
			dest([]string{"c"}, []string{"b2"}, DestinationAxonTerminal),
		}
		once := MergeDestinations(input)
		assert.Equal(t, once, MergeDestinations(once))
	})
}
