package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractInt safely extracts an integer from a DynamoDB attribute map
func ExtractInt(item map[string]types.AttributeValue, field string) int {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			if n, err := strconv.Atoi(v.Value); err == nil {
				return n
			}
		}
	}
	return 0
}

// ExtractStringList safely extracts a list of strings from a DynamoDB attribute map
func ExtractStringList(item map[string]types.AttributeValue, field string) []string {
	var out []string
	if attr, ok := item[field]; ok {
		if list, ok := attr.(*types.AttributeValueMemberL); ok {
			for _, member := range list.Value {
				if v, ok := member.(*types.AttributeValueMemberS); ok {
					out = append(out, v.Value)
				}
			}
		}
	}
	return out
}
