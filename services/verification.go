// services/verification.go
package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"sync"

	"barberbook-backend/utils"

	"github.com/twilio/twilio-go"
	verifyApi "github.com/twilio/twilio-go/rest/verify/v2"
)

// VerifyGateway is the outbound phone-verification collaborator. The
// gateway owns code validity, expiry and attempt limits; this side holds
// no state between send and check.
type VerifyGateway interface {
	// Send asks the gateway to issue and deliver a one-time code.
	// Non-production gateways may hand the code back (mockCode) so
	// the flow can be exercised without a real SMS provider.
	Send(phone string) (mockCode string, err error)
	// Check asks whether code is currently valid for phone. A wrong
	// code is (false, nil), not an error.
	Check(phone, code string) (bool, error)
}

// SendCodeResult reports a dispatched verification. MockCode is only set
// by test-mode gateways; production never exposes the code.
type SendCodeResult struct {
	Dispatched bool   `json:"dispatched"`
	MockCode   string `json:"mockCode,omitempty"`
}

// PhoneVerificationService fronts the verify gateway for the booking
// flow. No local rate limiting or expiry: that policy lives in the
// gateway.
type PhoneVerificationService struct {
	gateway VerifyGateway
}

func NewPhoneVerificationService(gateway VerifyGateway) *PhoneVerificationService {
	return &PhoneVerificationService{gateway: gateway}
}

func (s *PhoneVerificationService) SendCode(phone string) (*SendCodeResult, error) {
	if !utils.ValidatePhone(phone) {
		return nil, &ValidationError{Field: "phone", Reason: "invalid phone number format"}
	}
	mockCode, err := s.gateway.Send(utils.NormalizePhone(phone))
	if err != nil {
		return nil, &ExternalServiceError{Gateway: "verification", Err: err}
	}
	return &SendCodeResult{Dispatched: true, MockCode: mockCode}, nil
}

// CheckCode returns true when the gateway approves the code. A rejected
// code is a normal negative outcome; only gateway failures are errors.
func (s *PhoneVerificationService) CheckCode(phone, code string) (bool, error) {
	ok, err := s.gateway.Check(utils.NormalizePhone(phone), code)
	if err != nil {
		return false, &ExternalServiceError{Gateway: "verification", Err: err}
	}
	return ok, nil
}

// TwilioVerifyGateway backs VerifyGateway with the Twilio Verify v2 API.
type TwilioVerifyGateway struct {
	client     *twilio.RestClient
	serviceSid string
}

func NewTwilioVerifyGateway() *TwilioVerifyGateway {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioVerifyGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		serviceSid: os.Getenv("TWILIO_VERIFY_SERVICE_SID"),
	}
}

func (g *TwilioVerifyGateway) Configured() bool {
	return g.serviceSid != ""
}

func (g *TwilioVerifyGateway) Send(phone string) (string, error) {
	params := &verifyApi.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	if _, err := g.client.VerifyV2.CreateVerification(g.serviceSid, params); err != nil {
		return "", fmt.Errorf("create verification for %s: %w", phone, err)
	}
	return "", nil
}

func (g *TwilioVerifyGateway) Check(phone, code string) (bool, error) {
	params := &verifyApi.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := g.client.VerifyV2.CreateVerificationCheck(g.serviceSid, params)
	if err != nil {
		return false, fmt.Errorf("check verification for %s: %w", phone, err)
	}
	return resp.Status != nil && *resp.Status == "approved", nil
}

// MockVerifyGateway issues codes locally and returns them to the caller.
// Used when Twilio Verify is not configured so the guest flow still
// works end to end in development.
type MockVerifyGateway struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewMockVerifyGateway() *MockVerifyGateway {
	return &MockVerifyGateway{codes: make(map[string]string)}
}

func (g *MockVerifyGateway) Send(phone string) (string, error) {
	code, err := randomDigits(6)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	g.codes[phone] = code
	g.mu.Unlock()
	return code, nil
}

func (g *MockVerifyGateway) Check(phone, code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	issued, ok := g.codes[phone]
	if !ok || issued != code {
		return false, nil
	}
	delete(g.codes, phone)
	return true, nil
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
