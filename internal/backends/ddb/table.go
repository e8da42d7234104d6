package ddb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"
)

// Single table layout: PK is the record kind, SK is the record ID. IDs are
// time ordered so a forward Query on PK lists records in insertion order.
const (
	attrPK = "PK"
	attrSK = "SK"
)

// EnsureTable creates the table only if it doesn't exist.
func EnsureTable(ctx context.Context, client *dynamodb.Client, table string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &table,
		AttributeDefinitions: []ddbTypes.AttributeDefinition{
			{AttributeName: awsString(attrPK), AttributeType: ddbTypes.ScalarAttributeTypeS},
			{AttributeName: awsString(attrSK), AttributeType: ddbTypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbTypes.KeySchemaElement{
			{AttributeName: awsString(attrPK), KeyType: ddbTypes.KeyTypeHash},
			{AttributeName: awsString(attrSK), KeyType: ddbTypes.KeyTypeRange},
		},
		BillingMode: ddbTypes.BillingModePayPerRequest,
	})
	var re *ddbTypes.ResourceInUseException
	if err != nil && !errors.As(err, &re) {
		return err
	}
	if err == nil {
		log.WithField("table", table).Info("created dynamodb table")
	}
	return nil
}

func keyOf(kind, id string) map[string]ddbTypes.AttributeValue {
	return map[string]ddbTypes.AttributeValue{
		attrPK: &ddbTypes.AttributeValueMemberS{Value: kind},
		attrSK: &ddbTypes.AttributeValueMemberS{Value: id},
	}
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
