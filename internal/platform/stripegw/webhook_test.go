package stripegw

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, at time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestConstructEventValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	now := time.Now()

	event, err := constructEventAt(payload, signPayload(t, payload, now), webhookSecret, now)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, "pi_123", event.Data.Object.ID)
}

func TestConstructEventFailureMessage(t *testing.T) {
	payload := []byte(`{"id":"evt_2","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_456","last_payment_error":{"message":"card declined"}}}}`)
	now := time.Now()

	event, err := constructEventAt(payload, signPayload(t, payload, now), webhookSecret, now)
	require.NoError(t, err)
	assert.Equal(t, "card declined", event.Data.Object.LastPaymentError.Message)
}

func TestConstructEventTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()
	header := signPayload(t, payload, now)

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.payment_failed"}`)
	_, err := constructEventAt(tampered, header, webhookSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := signPayload(t, payload, now)

	_, err := constructEventAt(payload, header, "whsec_other", now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-10 * time.Minute)

	_, err := constructEventAt(payload, signPayload(t, payload, signedAt), webhookSecret, time.Now())
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestConstructEventMalformedHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	for _, header := range []string{"", "t=abc,v1=00", "v1=deadbeef", "t=123"} {
		_, err := constructEventAt(payload, header, webhookSecret, time.Now())
		assert.Error(t, err, "header %q should be rejected", header)
	}
}
