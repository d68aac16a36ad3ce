package message

import (
	"context"
	"sort"
	"strings"
	"time"

	"farmlink-be/internal/events"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/metrics"
	"farmlink-be/internal/user"

	"go.uber.org/zap"
)

// Directory resolves user ids to display-ready parties.
type Directory interface {
	LookupParties(ctx context.Context, userIDs []string) (map[string]user.Party, error)
	SearchRecipients(ctx context.Context, userID, term string) ([]user.Party, error)
	FarmerUserID(ctx context.Context, farmerID string) (string, error)
}

type Service interface {
	Conversations(ctx context.Context, userID string) ([]Conversation, error)
	Thread(ctx context.Context, userID, counterpartyID string) ([]Message, error)
	Send(ctx context.Context, senderID, receiverID, content string) (*Message, error)
	Recipients(ctx context.Context, userID, search string) ([]user.Party, error)
	CounterpartyForFarmer(ctx context.Context, farmerID string) (string, error)
}

type service struct {
	repo      Repository
	directory Directory
	events    events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, directory Directory, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		directory: directory,
		events:    publisher,
		now:       time.Now,
	}
}

// Conversations groups the user's messages by counterparty, most recently
// active first.
func (s *service) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Conversations"),
	)

	msgs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byParty := make(map[string]*Conversation)
	var order []string
	for _, m := range msgs {
		other := m.Counterparty(userID)
		conv, ok := byParty[other]
		if !ok {
			// rows arrive newest first, so the first one seen is the preview
			conv = &Conversation{
				Counterparty:  user.Party{UserID: other},
				LastMessage:   m.Content,
				LastTimestamp: m.Timestamp,
			}
			byParty[other] = conv
			order = append(order, other)
		}
		if m.ReceiverID == userID && !m.IsRead {
			conv.Unread++
		}
	}

	if len(order) == 0 {
		return []Conversation{}, nil
	}

	parties, err := s.directory.LookupParties(ctx, order)
	if err != nil {
		log.Error("failed to resolve conversation names", zap.Error(err))
		return nil, err
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		conv := byParty[id]
		if p, ok := parties[id]; ok {
			conv.Counterparty = p
		}
		out = append(out, *conv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastTimestamp.After(out[j].LastTimestamp)
	})
	return out, nil
}

// Thread loads the conversation with counterpartyID and marks everything
// addressed to userID as read.
func (s *service) Thread(ctx context.Context, userID, counterpartyID string) ([]Message, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Thread"),
	)

	msgs, err := s.repo.Thread(ctx, userID, counterpartyID)
	if err != nil {
		return nil, err
	}

	var unread []string
	for _, m := range msgs {
		if m.ReceiverID == userID && !m.IsRead {
			unread = append(unread, m.ID)
		}
	}
	if len(unread) == 0 {
		return msgs, nil
	}

	if err := s.repo.MarkRead(ctx, unread); err != nil {
		log.Error("failed to mark messages read", zap.Int("count", len(unread)), zap.Error(err))
		return nil, err
	}
	for i := range msgs {
		if msgs[i].ReceiverID == userID {
			msgs[i].IsRead = true
		}
	}
	return msgs, nil
}

func (s *service) Send(ctx context.Context, senderID, receiverID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, ErrMissingRecipient
	}
	if receiverID == senderID {
		return nil, ErrSelfMessage
	}

	m, err := s.repo.Insert(ctx, &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  s.now().UTC(),
		IsRead:     false,
	})
	if err != nil {
		return nil, err
	}

	metrics.MessagesSent.Inc()
	events.Emit(ctx, s.events, events.TopicMessageSent, m.ID, events.MessageSent{
		MessageID:  m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
	})
	return m, nil
}

func (s *service) Recipients(ctx context.Context, userID, search string) ([]user.Party, error) {
	return s.directory.SearchRecipients(ctx, userID, search)
}

// CounterpartyForFarmer maps a farmer profile id to the user id messages are
// addressed to.
func (s *service) CounterpartyForFarmer(ctx context.Context, farmerID string) (string, error) {
	return s.directory.FarmerUserID(ctx, farmerID)
}
