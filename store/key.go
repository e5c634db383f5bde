package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key is one dimension of a composite primary key: an attribute name and
// its string value. Whether it acts as the partition key or the sort key
// depends on the call position.
type Key struct {
	Name  string
	Value string
}

// NewKey builds a Key. Name must be non-empty; operations reject keys
// with an empty name.
func NewKey(name, value string) Key {
	return Key{Name: name, Value: value}
}

func (k Key) valid() bool {
	return k.Name != ""
}

// attr returns the key as a single DynamoDB attribute pair.
func (k Key) attr() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		k.Name: &types.AttributeValueMemberS{Value: k.Value},
	}
}

// primaryKey assembles the full key map for partition plus optional sort key.
func primaryKey(partition Key, sort *Key) map[string]types.AttributeValue {
	key := partition.attr()
	if sort != nil {
		key[sort.Name] = &types.AttributeValueMemberS{Value: sort.Value}
	}
	return key
}
