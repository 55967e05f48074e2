package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// MongoStore 提供MongoDB模板存储功能
type MongoStore struct {
	client   *mongo.Client
	dbName   string
	collName string
	timeout  time.Duration
}

// NewMongoStore 创建新的MongoDB模板存储
func NewMongoStore(uri, dbName, collName string, timeout time.Duration) (*MongoStore, error) {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 创建MongoDB客户端
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping失败: %w", err)
	}

	return &MongoStore{
		client:   client,
		dbName:   dbName,
		collName: collName,
		timeout:  timeout,
	}, nil
}

// LoadTemplates 从MongoDB加载全部模板定义
func (s *MongoStore) LoadTemplates(ctx context.Context) ([]template.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	collection := s.client.Database(s.dbName).Collection(s.collName)

	// 按名称排序保证加载顺序稳定
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("查询模板列表失败: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []template.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("解析模板列表失败: %w", err)
	}

	return templates, nil
}

// SaveTemplates 将模板定义写入MongoDB，按ID覆盖已有文档
func (s *MongoStore) SaveTemplates(ctx context.Context, templates []template.Template) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	collection := s.client.Database(s.dbName).Collection(s.collName)

	for _, tpl := range templates {
		if err := tpl.Validate(); err != nil {
			return fmt.Errorf("模板 '%s' 无效: %w", tpl.ID, err)
		}

		_, err := collection.ReplaceOne(
			ctx,
			bson.M{"_id": tpl.ID},
			tpl,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("写入模板 '%s' 失败: %w", tpl.ID, err)
		}
	}

	return nil
}

// Close 关闭MongoDB连接
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
