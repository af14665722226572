// Package ledger computes who owes whom within a group.
//
// Balances are derived on demand from two independent event sources, shared
// expenses and settlement transactions. There is no persisted balance row,
// so results can never be stale.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/404Simon/splitify-backend/internal/models"
	"github.com/404Simon/splitify-backend/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotGroupMember = errors.New("you are not a member of this group")

// RelationshipType states the direction of a debt relationship from the
// balance owner's point of view.
type RelationshipType string

const (
	Owes RelationshipType = "owes" // the balance owner owes the other user
	Owed RelationshipType = "owed" // the other user owes the balance owner
)

// NetType is the sign of a user's net position.
type NetType string

const (
	NetPositive NetType = "positive"
	NetNegative NetType = "negative"
	NetNeutral  NetType = "neutral"
)

// Relationship is one pairwise debt between the balance owner and another
// group member. The amount is always positive, the direction is carried by
// Type.
type Relationship struct {
	UserID   uuid.UUID        `json:"userId"`
	Username string           `json:"username"`
	Amount   decimal.Decimal  `json:"amount"`
	Type     RelationshipType `json:"type"`
}

// Balance is one member's derived debt position within a group.
type Balance struct {
	UserID        uuid.UUID       `json:"userId"`
	Username      string          `json:"username"`
	Relationships []Relationship  `json:"relationships"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`  // what others owe this user
	TotalOwing    decimal.Decimal `json:"totalOwing"` // what this user owes others
	NetAmount     decimal.Decimal `json:"netAmount"`  // absolute value, sign carried by NetType
	NetType       NetType         `json:"netType"`
}

// Service computes balances for groups.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Balances computes the balance sheet for every member of the group.
//
// The acting user must be a member of the group; non-members get
// ErrNotGroupMember, never an empty result.
func (s *Service) Balances(groupID, actingUserID uuid.UUID) ([]Balance, error) {
	member, err := s.store.IsMember(groupID, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("checking group membership: %w", err)
	}

	if !member {
		return nil, ErrNotGroupMember
	}

	members, err := s.store.Members(groupID)
	if err != nil {
		return nil, fmt.Errorf("loading group members: %w", err)
	}

	expenses, err := s.store.SharedExpenses(groupID)
	if err != nil {
		return nil, fmt.Errorf("loading shared expenses: %w", err)
	}

	transactions, err := s.store.Transactions(groupID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	matrix := newDebtMatrix()
	matrix.applyExpenses(expenses)
	matrix.applyTransactions(transactions)

	return buildBalances(members, matrix), nil
}

// debtMatrix accumulates pairwise debts: debts[a][b] > 0 means a owes b.
//
// The matrix is antisymmetric by construction, every update writes both
// directions. It is scratch state for a single computation and never
// outlives the request.
type debtMatrix struct {
	debts map[uuid.UUID]map[uuid.UUID]decimal.Decimal
}

func newDebtMatrix() *debtMatrix {
	return &debtMatrix{debts: make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal)}
}

func (m *debtMatrix) add(debtor, creditor uuid.UUID, amount decimal.Decimal) {
	row, ok := m.debts[debtor]
	if !ok {
		row = make(map[uuid.UUID]decimal.Decimal)
		m.debts[debtor] = row
	}

	row[creditor] = row[creditor].Add(amount)
}

// applyExpenses adds each participant's equal share as a debt towards the
// expense creator. The creator never owes themselves; their side is the
// algebraic negative so both directions stay consistent.
func (m *debtMatrix) applyExpenses(expenses []models.SharedExpense) {
	for _, expense := range expenses {
		if len(expense.Participants) == 0 {
			continue
		}

		share := money.Share(expense.Amount, len(expense.Participants))

		for _, participant := range expense.Participants {
			if participant.ID == expense.CreatedBy {
				continue
			}

			m.add(participant.ID, expense.CreatedBy, share)
			m.add(expense.CreatedBy, participant.ID, share.Neg())
		}
	}
}

// applyTransactions nets direct payments against the accumulated debts.
// Paying reduces what the payer owes the recipient; overpaying flips the
// relationship instead of clamping at zero.
func (m *debtMatrix) applyTransactions(transactions []models.Transaction) {
	for _, t := range transactions {
		m.add(t.PayerID, t.RecipientID, t.Amount.Neg())
		m.add(t.RecipientID, t.PayerID, t.Amount)
	}
}

// buildBalances reduces the matrix to one Balance per current member.
//
// Rows of users that have since left the group still contribute to the
// remaining members' rows but are not reported themselves: history is not
// rewritten when membership changes.
func buildBalances(members []models.User, matrix *debtMatrix) []Balance {
	usernames := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		usernames[m.ID] = m.Username
	}

	balances := make([]Balance, 0, len(members))
	for _, member := range members {
		relationships := make([]Relationship, 0)
		totalOwed := decimal.Zero
		totalOwing := decimal.Zero

		for otherID, amount := range matrix.debts[member.ID] {
			if amount.IsZero() {
				continue
			}

			// The matrix is defined over ordered pairs of current members.
			// Counterparties that have since left the group are dropped.
			username, ok := usernames[otherID]
			if !ok {
				continue
			}

			relationship := Relationship{
				UserID:   otherID,
				Username: username,
			}

			if amount.IsPositive() {
				relationship.Amount = money.Round(amount)
				relationship.Type = Owes
				totalOwing = totalOwing.Add(amount)
			} else {
				relationship.Amount = money.Round(amount.Abs())
				relationship.Type = Owed
				totalOwed = totalOwed.Add(amount.Abs())
			}

			relationships = append(relationships, relationship)
		}

		// Map iteration order is random, sort for stable display
		sort.Slice(relationships, func(i, j int) bool {
			return relationships[i].Username < relationships[j].Username
		})

		net := totalOwed.Sub(totalOwing)
		netType := NetNeutral
		if net.IsPositive() {
			netType = NetPositive
		} else if net.IsNegative() {
			netType = NetNegative
		}

		balances = append(balances, Balance{
			UserID:        member.ID,
			Username:      member.Username,
			Relationships: relationships,
			TotalOwed:     money.Round(totalOwed),
			TotalOwing:    money.Round(totalOwing),
			NetAmount:     money.Round(net.Abs()),
			NetType:       netType,
		})
	}

	return balances
}
