package eventsrc

import (
	"math/rand"

	"github.com/segmentio/kafka-go"
)

// Partition maps a partition key to a partition index in [0, numPartitions).
// Keyed messages use the 32-bit Murmur2 hash of the key, masked positive and
// reduced modulo the partition count, which keeps every event for a given key
// on the same partition. Keyless messages are spread uniformly at random.
func Partition(key []byte, numPartitions int) int {
	if len(key) == 0 {
		return rand.Intn(numPartitions)
	}
	return int(toPositive(murmur2(key))) % numPartitions
}

// Murmur2Balancer is a kafka.Balancer that applies Partition to each message,
// matching the Java client's default keyed-partitioning behavior.
type Murmur2Balancer struct{}

func (Murmur2Balancer) Balance(msg kafka.Message, partitions ...int) int {
	return partitions[Partition(msg.Key, len(partitions))]
}

func toPositive(v int32) int32 {
	return v & 0x7fffffff
}

// murmur2 is the 32-bit Murmur2 variant used by the Kafka Java client,
// including its fixed seed.
func murmur2(data []byte) int32 {
	const (
		seed = uint32(0x9747b28c)
		m    = uint32(0x5bd1e995)
		r    = 24
	)

	length := len(data)
	h := seed ^ uint32(length)

	i := 0
	for ; length-i >= 4; i += 4 {
		k := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
	}

	// Handle the last few bytes of the input.
	switch length - i {
	case 3:
		h ^= uint32(data[i+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[i+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[i])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15

	return int32(h)
}
