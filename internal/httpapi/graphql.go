package httpapi

import (
	"encoding/json"
	"net/http"

	"farmlink-be/internal/transport"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
)

const maxQueryBytes = 1 << 20

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler serves POST JSON bodies and GET ?query= requests.
type GraphQLHandler struct {
	Schema graphql.Schema
}

func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{Schema: schema}
}

func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				utils.WriteJSONError(w, "variables must be a JSON object", http.StatusBadRequest)
				return
			}
		}
	default:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBytes)).Decode(&req); err != nil {
			utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if req.Query == "" {
		utils.WriteJSONError(w, "query is required", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        transport.WithHTTP(r.Context(), r, w),
	})

	utils.WriteJSON(w, http.StatusOK, result)
}
