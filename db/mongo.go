package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo bundles the document store used for remarks and the GridFS
// bucket holding their attachments.
type Mongo struct {
	Client  *mongo.Client
	Remarks *mongo.Collection
	Files   *gridfs.Bucket
}

func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))

	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	mongoDB := client.Database(database)

	bucket, err := gridfs.NewBucket(mongoDB)

	if err != nil {
		return nil, err
	}

	return &Mongo{
		Client:  client,
		Remarks: mongoDB.Collection("remarks"),
		Files:   bucket,
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
