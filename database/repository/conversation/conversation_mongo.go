package conversationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classhub/database"
	"classhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConversationRepo implements ConversationRepository using MongoDB.
type MongoConversationRepo struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

// NewMongoConversationRepo creates a new instance of ConversationRepository using MongoDB.
func NewMongoConversationRepo(dbName string) ConversationRepository {
	db := database.MongoClient.Database(dbName)
	repo := &MongoConversationRepo{
		convColl: db.Collection("conversations"),
		msgColl:  db.Collection("conversation_messages"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create conversation indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoConversationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	convIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.convColl.Indexes().CreateMany(ctx, convIndexes); err != nil {
		return fmt.Errorf("failed to create conversation indexes: %w", err)
	}

	msgIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	if _, err := r.msgColl.Indexes().CreateMany(ctx, msgIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a conversation by its unique ID.
func (r *MongoConversationRepo) GetByID(id string) (*models.Conversation, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByOwner retrieves the conversation owned by a user.
func (r *MongoConversationRepo) GetByOwner(ownerID string) (*models.Conversation, error) {
	return r.findOne(bson.M{"owner_id": ownerID})
}

func (r *MongoConversationRepo) findOne(filter bson.M) (*models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var conversation models.Conversation
	err := r.convColl.FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return &conversation, nil
}

// Create inserts a new conversation document.
func (r *MongoConversationRepo) Create(conversation *models.Conversation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	if _, err := r.convColl.InsertOne(ctx, conversation); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// AppendMessage appends one message to a conversation's log and bumps the
// conversation's updated timestamp.
func (r *MongoConversationRepo) AppendMessage(message *models.ConversationMessage) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	message.CreatedAt = time.Now()
	if _, err := r.msgColl.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	update := bson.M{"$set": bson.M{"updated_at": message.CreatedAt}}
	if _, err := r.convColl.UpdateOne(ctx, bson.M{"id": message.ConversationID}, update); err != nil {
		return fmt.Errorf("failed to touch conversation %s: %w", message.ConversationID, err)
	}
	return nil
}

// GetMessages retrieves a conversation's messages, oldest first.
func (r *MongoConversationRepo) GetMessages(conversationID string) ([]models.ConversationMessage, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.msgColl.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ConversationMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}
