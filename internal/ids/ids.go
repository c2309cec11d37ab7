package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

const suffixLen = 9

// Generator mints the public identifiers used for registrations, payments
// and gateway orders.
type Generator struct {
	node *snowflake.Node
	now  func() time.Time
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node, now: time.Now}, nil
}

// RegistrationID returns an id of the form REG-<unix ms>-<9 chars>.
func (g *Generator) RegistrationID() string {
	return g.prefixed("REG")
}

// PaymentID returns an id of the form PAY-<unix ms>-<9 chars>.
func (g *Generator) PaymentID() string {
	return g.prefixed("PAY")
}

func (g *Generator) OrderID() string {
	return "ORDER-" + g.node.Generate().String()
}

func (g *Generator) prefixed(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, g.now().UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(s[:suffixLen])
}
