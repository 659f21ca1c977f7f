package gateway

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pixflow/internal/domain/payment"
)

// mockIDPrefix marks instruments generated without a processor round
// trip. Status queries recognize the prefix and short-circuit instead
// of hitting the network.
const mockIDPrefix = "mock_"

// IsMockID reports whether an instrument ID was locally generated in
// offline mode.
func IsMockID(id string) bool {
	return strings.HasPrefix(id, mockIDPrefix)
}

// newMockInstrument builds a fully populated offline instrument for
// the given request. The pix code payload follows the EMV "000201"
// framing real processors emit so downstream rendering behaves the
// same as in live mode.
func newMockInstrument(req payment.Request) *payment.Instrument {
	id := mockIDPrefix + uuid.NewString()
	code := fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s5204000053039865406%d.%02d5802BR", uuid.NewString(), req.Amount/100, req.Amount%100)
	return &payment.Instrument{
		ID:      id,
		QRCode:  "data:image/png;base64,mock-qr-" + id,
		PixCode: code,
		Status:  payment.StatusPending,
	}
}
