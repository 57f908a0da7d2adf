package payment

// Driver is the interface that all payment drivers must implement
type Driver interface {
	// SetConfig sets the configuration for the driver
	SetConfig(config map[string]interface{}) error

	// Pay initiates a payment for an order and returns the jump URL the
	// client should be redirected to.
	Pay(orderID string, amount float64, notifyURL string, returnURL string, params map[string]interface{}) (string, error)

	// Notify verifies the gateway callback parameters
	// Returns: isValid, orderID, externalID, error
	Notify(params map[string]interface{}) (bool, string, string, error)
}
