package ddb

import (
	"encoding/base64"
	"encoding/json"

	appErrors "todo-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// errInvalidCursor is returned for any cursor this package did not produce.
var errInvalidCursor = appErrors.NewValidation("Invalid pagination cursor")

// encodeCursor wraps DynamoDB's LastEvaluatedKey in an opaque string.
func encodeCursor(lastEvaluatedKey map[string]types.AttributeValue) (string, error) {
	if len(lastEvaluatedKey) == 0 {
		return "", nil
	}

	var plain map[string]any
	if err := attributevalue.UnmarshalMap(lastEvaluatedKey, &plain); err != nil {
		return "", err
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// decodeCursor turns a cursor back into an ExclusiveStartKey. An empty
// cursor means "first page" and yields nil.
func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, errInvalidCursor
	}
	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil || len(plain) == 0 {
		return nil, errInvalidCursor
	}
	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, errInvalidCursor
	}
	return key, nil
}
