package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport.TLS)
	assert.Nil(t, p.transport.SASL)
}

func TestNewProducerWithSecurity(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:       []string{"kafka:9093"},
		TLS:           true,
		SASLEnabled:   true,
		SASLMechanism: "SCRAM-SHA-512",
		SASLUsername:  "sensor",
		SASLPassword:  "secret",
	})

	require.NoError(t, err)
	assert.NotNil(t, p.transport.TLS)
	require.NotNil(t, p.transport.SASL)
	assert.Equal(t, "SCRAM-SHA-512", p.transport.SASL.Name())
}

func TestNewProducerRejectsUnknownMechanism(t *testing.T) {
	_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "GSSAPI"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported SASL mechanism")
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("seqscore.events")
	w2 := p.getOrCreateWriter("seqscore.events")
	w3 := p.getOrCreateWriter("seqscore.sequences")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestMessageConversionRoundTrip(t *testing.T) {
	in := Message{
		Key:     []byte("sample-1"),
		Value:   []byte(`{"sequence":"1,2,3"}`),
		Headers: map[string]string{"event_type": "seqscore.sequence.scored"},
	}

	km := toKafkaMessages([]Message{in})
	require.Len(t, km, 1)
	assert.Equal(t, []kafkago.Header{{Key: "event_type", Value: []byte("seqscore.sequence.scored")}}, km[0].Headers)

	out := fromKafkaMessage(km[0])
	assert.Equal(t, in, out)
}
