package graph

import (
	"context"

	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
)

func (r *Resolver) conversations(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	convs, err := r.Messages.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]interface{}, 0, len(convs))
	for _, c := range convs {
		out = append(out, mapConversation(c))
	}
	return out, nil
}

// thread accepts either a user id or, when starting from a product page, the
// farmer profile id of the seller.
func (r *Resolver) thread(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	counterpartyID := stringArg(p.Args, "counterpartyId")
	if counterpartyID == "" {
		farmerID := stringArg(p.Args, "farmerId")
		if farmerID == "" {
			return nil, errMissingCounterparty
		}
		if counterpartyID, err = r.Messages.CounterpartyForFarmer(ctx, farmerID); err != nil {
			return nil, err
		}
	}

	msgs, err := r.Messages.Thread(ctx, userID, counterpartyID)
	if err != nil {
		return nil, err
	}

	out := make([]interface{}, 0, len(msgs))
	for i := range msgs {
		out = append(out, mapMessage(&msgs[i], userID))
	}
	return out, nil
}

func (r *Resolver) sendMessage(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	m, err := r.Messages.Send(ctx, userID, stringArg(p.Args, "receiverId"), stringArg(p.Args, "content"))
	if err != nil {
		return nil, err
	}
	return mapMessage(m, userID), nil
}

func (r *Resolver) farmerUserID(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	if _, err := utils.RequireUser(ctx); err != nil {
		return nil, err
	}
	return r.Messages.CounterpartyForFarmer(ctx, stringArg(p.Args, "farmerId"))
}

func (r *Resolver) recipients(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	parties, err := r.Messages.Recipients(ctx, userID, stringArg(p.Args, "search"))
	if err != nil {
		return nil, err
	}
	return mapParties(parties), nil
}
