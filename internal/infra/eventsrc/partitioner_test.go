package eventsrc

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestMurmur2(t *testing.T) {
	// Reference values from the Kafka Java client.
	cases := map[string]int32{
		"21":                         -973932308,
		"abc":                        479470107,
		"foobar":                     -790332482,
		"a-little-bit-long-string":   -985981536,
		"a-little-bit-longer-string": -1486304829,
	}

	for input, expected := range cases {
		assert.Equal(t, expected, murmur2([]byte(input)), "murmur2(%q)", input)
	}
}

func TestPartition(t *testing.T) {
	t.Run("byte-equal keys map to the same partition", func(t *testing.T) {
		for _, numPartitions := range []int{1, 3, 12, 100} {
			p1 := Partition([]byte("customer-1"), numPartitions)
			p2 := Partition([]byte("customer-1"), numPartitions)
			assert.Equal(t, p1, p2, "numPartitions=%d", numPartitions)
		}
	})

	t.Run("result is always in range", func(t *testing.T) {
		keys := [][]byte{[]byte("C1"), []byte("C2"), []byte("a-little-bit-long-string"), {0xff, 0x00, 0x7f}}
		for numPartitions := 1; numPartitions <= 16; numPartitions++ {
			for _, key := range keys {
				p := Partition(key, numPartitions)
				assert.GreaterOrEqual(t, p, 0)
				assert.Less(t, p, numPartitions)
			}
		}
	})

	t.Run("keyless messages stay in range", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			p := Partition(nil, 7)
			assert.GreaterOrEqual(t, p, 0)
			assert.Less(t, p, 7)
		}
	})
}

func TestMurmur2Balancer(t *testing.T) {
	balancer := Murmur2Balancer{}

	msg := kafka.Message{Key: []byte("customer-42")}
	partitions := []int{0, 1, 2, 3, 4, 5}

	first := balancer.Balance(msg, partitions...)
	assert.Contains(t, partitions, first)

	// Keyed balancing is deterministic.
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, balancer.Balance(msg, partitions...))
	}
}
