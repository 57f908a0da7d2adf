package epay

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDriver(t *testing.T) *EpayDriver {
	d := NewEpayDriver()
	err := d.SetConfig(map[string]interface{}{
		"url": "https://pay.example.com/",
		"pid": "1001",
		"key": "testkey",
	})
	assert.NoError(t, err)
	return d
}

func TestSetConfig(t *testing.T) {
	d := newTestDriver(t)
	assert.Equal(t, "https://pay.example.com/submit.php", d.GatewayURL)

	err := NewEpayDriver().SetConfig(map[string]interface{}{"pid": "1", "key": "k"})
	assert.Error(t, err)
}

func TestPayNotifyRoundTrip(t *testing.T) {
	d := newTestDriver(t)

	jumpURL, err := d.Pay("order-123", 1.50,
		"https://lib.example.com/api/v1/payments/notify",
		"https://lib.example.com/fines", nil)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(jumpURL, d.GatewayURL+"?"))

	// A callback carrying the same signed fields verifies
	parsed, err := url.Parse(jumpURL)
	assert.NoError(t, err)

	params := make(map[string]interface{})
	for k, v := range parsed.Query() {
		params[k] = v[0]
	}

	valid, orderID, _, err := d.Notify(params)
	assert.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "order-123", orderID)
}

func TestNotify_TamperedAmount(t *testing.T) {
	d := newTestDriver(t)

	jumpURL, err := d.Pay("order-123", 1.50, "https://lib.example.com/notify", "", nil)
	assert.NoError(t, err)

	parsed, _ := url.Parse(jumpURL)
	params := make(map[string]interface{})
	for k, v := range parsed.Query() {
		params[k] = v[0]
	}
	params["money"] = "0.01"

	valid, _, _, err := d.Notify(params)
	assert.Error(t, err)
	assert.False(t, valid)
}
