package notification

// Motive identifies why a notification is being sent and selects its template.
type Motive string

const (
	MotiveBookingConfirmed     Motive = "booking_confirmed"
	MotiveBookingCancelled     Motive = "booking_cancelled"
	MotiveSubscriptionPayment  Motive = "subscription_payment"
	MotiveSubscriptionExpiring Motive = "subscription_expiring"
	MotiveSubscriptionExpired  Motive = "subscription_expired"
)

type Event struct {
	Motive    Motive            `json:"motive"`
	Recipient string            `json:"recipient"`
	Variables map[string]string `json:"variables,omitempty"`
}
