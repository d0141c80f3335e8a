package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/store"
)

// DynamoMetadata keeps score records in a DynamoDB table keyed by PK = score id
type DynamoMetadata struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoMetadata(endpoint, region, table string) (*DynamoMetadata, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return &DynamoMetadata{client: dynamodb.New(sess), table: table}, nil
}

func (d *DynamoMetadata) Put(rec model.ScoreRecord) error {
	beats := make([]*dynamodb.AttributeValue, 0, len(rec.OnsetBeats))
	for _, b := range rec.OnsetBeats {
		beats = append(beats, &dynamodb.AttributeValue{N: aws.String(strconv.FormatFloat(b, 'g', -1, 64))})
	}

	_, err := d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK":                 {S: aws.String(rec.ID)},
			"Filename":           {S: aws.String(rec.Filename)},
			"OnsetBeats":         {L: beats},
			"HasPerformanceFile": {BOOL: aws.Bool(rec.HasPerformanceFile)},
		},
	})
	return errors.Wrap(err, "error from DynamoDB")
}

func (d *DynamoMetadata) Get(id string) (model.ScoreRecord, error) {
	var rec model.ScoreRecord
	res, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return rec, errors.Wrap(err, "error from DynamoDB")
	}
	if len(res.Item) == 0 {
		return rec, store.ErrScoreNotFound
	}

	item := res.Item
	rec.ID = aws.StringValue(item["PK"].S)
	if v, ok := item["Filename"]; ok {
		rec.Filename = aws.StringValue(v.S)
	}
	if v, ok := item["HasPerformanceFile"]; ok {
		rec.HasPerformanceFile = aws.BoolValue(v.BOOL)
	}
	if v, ok := item["OnsetBeats"]; ok {
		for _, n := range v.L {
			b, err := strconv.ParseFloat(aws.StringValue(n.N), 64)
			if err != nil {
				return rec, errors.Wrapf(err, "bad onset beat in record %v", id)
			}
			rec.OnsetBeats = append(rec.OnsetBeats, b)
		}
	}
	return rec, nil
}
