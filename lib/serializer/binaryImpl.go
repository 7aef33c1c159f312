package serializer

import (
	"encoding/binary"
	"fmt"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() ISerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements ISerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasType    byte = 1 << 0
	hasPayload byte = 1 << 1
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s binarySerializerImpl) Serialize(env Envelope) ([]byte, error) {
	// Calculate total size needed
	totalSize := s.sizeBytes(env)
	result := make([]byte, totalSize)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 1 // Start after flags

	// Handle Type
	if env.Type != "" {
		flags |= hasType
		typeBytes := []byte(env.Type)
		typeLen := len(typeBytes)

		// Write type length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(typeLen))
		pos += 4

		// Write type data
		copy(result[pos:pos+typeLen], typeBytes)
		pos += typeLen
	}

	// Handle Payload
	if env.Payload != nil {
		flags |= hasPayload
		payloadLen := len(env.Payload)

		// Write payload length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(payloadLen))
		pos += 4

		// Write payload data
		if payloadLen > 0 {
			copy(result[pos:pos+payloadLen], env.Payload)
			pos += payloadLen
		}
	}

	// Set flags byte after knowing which fields are present
	result[0] = flags

	return result, nil
}

func (s binarySerializerImpl) Deserialize(data []byte, env *Envelope) error {
	// Check minimum size (flags)
	if len(data) < 1 {
		return fmt.Errorf("data too short for envelope header")
	}

	// Read flags
	flags := data[0]

	// Initialize read position
	pos := 1

	// Read Type if present
	if flags&hasType != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for type length")
		}

		// Read type length
		typeLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(typeLen) > len(data) {
			return fmt.Errorf("data too short for type data")
		}

		// Read type data
		env.Type = string(data[pos : pos+int(typeLen)])
		pos += int(typeLen)
	} else {
		env.Type = ""
	}

	// Read Payload if present
	if flags&hasPayload != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for payload length")
		}

		// Read payload length
		payloadLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(payloadLen) > len(data) {
			return fmt.Errorf("data too short for payload data")
		}

		// Read payload data - create an empty slice (not nil) if length is 0
		// Allocate only if needed
		if env.Payload == nil || cap(env.Payload) < int(payloadLen) {
			env.Payload = make([]byte, payloadLen)
		} else {
			env.Payload = env.Payload[:payloadLen]
		}

		if payloadLen > 0 {
			copy(env.Payload, data[pos:pos+int(payloadLen)])
		}
		pos += int(payloadLen)
	} else {
		env.Payload = nil
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (s binarySerializerImpl) sizeBytes(env Envelope) int {
	// 1 byte for flags
	size := 1

	// Add sizes for fields that require length encoding
	if env.Type != "" {
		size += 4 + len(env.Type) // 4 bytes for length + type string
	}
	if env.Payload != nil {
		size += 4 + len(env.Payload) // 4 bytes for length + payload bytes
	}

	return size
}
