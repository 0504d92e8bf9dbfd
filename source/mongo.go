package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sheenazien8/sqgrid/grid"
	"github.com/sheenazien8/sqgrid/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoIDField = "_id"

// loadMongo reads a collection. Query names the collection and the database
// comes from the url path.
func loadMongo(ctx context.Context, req Request) ([]grid.ResultSet, error) {
	database, err := mongoDatabase(req.URL)
	if err != nil {
		return nil, err
	}

	urlstr := req.URL
	if strings.HasPrefix(strings.ToLower(urlstr), "mongo://") {
		urlstr = "mongodb://" + urlstr[len("mongo://"):]
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(urlstr))
	if err != nil {
		return nil, wrap("failed to connect", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, wrap("failed to connect", err)
	}

	opts := options.Find()
	if req.Limit > 0 {
		opts.SetLimit(int64(req.Limit))
	}

	logger.Info("Reading collection", map[string]any{
		"database":   database,
		"collection": req.Query,
	})

	cursor, err := client.Database(database).Collection(req.Query).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("find failed", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap("failed to read documents", err)
	}

	set := documentsToResultSet(docs)
	set.Table = req.Table
	if set.Table == "" {
		set.Table = req.Query
	}
	if len(req.PrimaryKeys) == 0 {
		for i := range set.Columns {
			set.Columns[i].IsPrimaryKey = set.Columns[i].Name == mongoIDField
		}
	}
	return []grid.ResultSet{set}, nil
}

func mongoDatabase(urlstr string) (string, error) {
	u, err := url.Parse(urlstr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	database := strings.Trim(u.Path, "/")
	if database == "" {
		return "", fmt.Errorf("mongodb url %q has no database", u.Redacted())
	}
	return database, nil
}

// documentsToResultSet flattens documents into rows. Columns are the union
// of top-level fields in first-seen order, with _id first.
func documentsToResultSet(docs []bson.D) grid.ResultSet {
	var names []string
	seen := map[string]int{}
	types := map[string]string{}

	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = len(names)
			names = append(names, name)
		}
	}
	for _, doc := range docs {
		for _, e := range doc {
			if e.Key == mongoIDField {
				add(e.Key)
			}
		}
	}
	for _, doc := range docs {
		for _, e := range doc {
			add(e.Key)
			if _, ok := types[e.Key]; !ok && e.Value != nil {
				types[e.Key] = mongoType(e.Value)
			}
		}
	}

	columns := grid.NewColumns(names...)
	for i := range columns {
		columns[i].DeclaredType = types[columns[i].Name]
	}

	rows := make([]grid.Row, len(docs))
	for r, doc := range docs {
		row := make(grid.Row, len(names))
		for _, e := range doc {
			row[seen[e.Key]] = mongoValue(e.Value)
		}
		rows[r] = row
	}

	for i := range columns {
		columns[i].DisplayWidth = displayWidth(columns[i], rows, i)
	}
	return grid.ResultSet{Columns: columns, Rows: rows}
}

// mongoValue converts BSON values to grid cell values. Nested documents and
// arrays are rendered as JSON text.
func mongoValue(val any) any {
	switch v := val.(type) {
	case nil, string, bool, int32, int64, float64:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC()
	case primitive.Decimal128:
		return v.String()
	case primitive.Binary:
		return v.Data
	case primitive.Null, primitive.Undefined:
		return nil
	case bson.D, bson.M, bson.A:
		return mongoJSON(v)
	}
	return fmt.Sprintf("%v", val)
}

func mongoJSON(v any) string {
	b, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var wrapped struct {
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return string(b)
	}
	return string(wrapped.V)
}

func mongoType(val any) string {
	switch val.(type) {
	case string:
		return "string"
	case int32:
		return "int"
	case int64:
		return "long"
	case float64:
		return "double"
	case bool:
		return "bool"
	case primitive.ObjectID:
		return "objectId"
	case primitive.DateTime, primitive.Timestamp:
		return "date"
	case primitive.Decimal128:
		return "decimal"
	case primitive.Binary:
		return "binData"
	case bson.A:
		return "array"
	case bson.D, bson.M:
		return "object"
	}
	return "unknown"
}
