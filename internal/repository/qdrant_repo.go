package repository

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/tubebrief/tubebrief/internal/domain"
)

const (
	defaultVectorDimension = 1536
)

// QdrantConnectionConfig holds configuration for Qdrant connection
type QdrantConnectionConfig struct {
	Host            string
	Port            int
	Collection      string
	APIKey          string // Qdrant Cloud API Key (enables TLS automatically)
	UseTLS          bool   // Explicitly enable TLS without API Key
	VectorDimension int
}

// apiKeyInterceptor creates a unary interceptor that adds API key to metadata
func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// QdrantRepository handles vector operations with Qdrant
type QdrantRepository struct {
	conn            *grpc.ClientConn
	pointsClient    pb.PointsClient
	collectClient   pb.CollectionsClient
	collectionName  string
	vectorDimension int
}

// NewQdrantRepository creates a new QdrantRepository
// Supports both local Qdrant (insecure) and Qdrant Cloud (TLS + API Key)
func NewQdrantRepository(cfg *QdrantConnectionConfig) (*QdrantRepository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	vectorDimension := cfg.VectorDimension
	if vectorDimension <= 0 {
		vectorDimension = defaultVectorDimension
	}

	var opts []grpc.DialOption

	// TLS is enabled if an API key is set or UseTLS is explicitly true
	useTLS := cfg.UseTLS || cfg.APIKey != ""

	if useTLS {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
		creds := credentials.NewTLS(tlsConfig)
		opts = append(opts, grpc.WithTransportCredentials(creds))

		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantRepository{
		conn:            conn,
		pointsClient:    pb.NewPointsClient(conn),
		collectClient:   pb.NewCollectionsClient(conn),
		collectionName:  cfg.Collection,
		vectorDimension: vectorDimension,
	}, nil
}

// Close closes the gRPC connection
func (r *QdrantRepository) Close() error {
	return r.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist
func (r *QdrantRepository) EnsureCollection(ctx context.Context) error {
	info, err := r.collectClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collectionName,
	})
	if err == nil {
		if size, ok := collectionVectorSize(info.GetResult()); ok {
			if size != uint64(r.vectorDimension) {
				return fmt.Errorf("collection %s has vector size %d, expected %d", r.collectionName, size, r.vectorDimension)
			}
		}
		return nil
	}

	_, err = r.collectClient.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(r.vectorDimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:                 optionalUint64(16),
			EfConstruct:       optionalUint64(128),
			FullScanThreshold: optionalUint64(10000),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

func optionalUint64(v uint64) *uint64 {
	return &v
}

func collectionVectorSize(info *pb.CollectionInfo) (uint64, bool) {
	if info == nil {
		return 0, false
	}

	config := info.GetConfig()
	if config == nil {
		return 0, false
	}

	params := config.GetParams()
	if params == nil {
		return 0, false
	}

	vectors := params.GetVectorsConfig()
	if vectors == nil {
		return 0, false
	}

	if single := vectors.GetParams(); single != nil {
		if size := single.GetSize(); size > 0 {
			return size, true
		}
	}

	return 0, false
}

// PointID maps a logical vector id (blog id, or "{blogID}_{chunkIndex}") to a
// deterministic Qdrant point UUID. Qdrant only accepts UUID or integer point
// ids; UUIDv5 keeps the mapping stable so re-upserting the same logical id
// replaces the existing point.
func PointID(vectorID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(vectorID)).String()
}

// VectorPayload represents the payload stored with each vector.
// Fields are flat string/int values; the logical vector id is carried
// verbatim so search results can report it.
type VectorPayload struct {
	VectorID   string            `json:"vector_id"`
	UserID     string            `json:"user_id"`
	YoutubeURL string            `json:"youtube_url"`
	VideoTitle string            `json:"video_title"`
	Type       domain.VectorType `json:"type"`
	ChunkIndex int               `json:"chunk_index"`
	Text       string            `json:"text"`
}

// Upsert inserts or updates a vector with payload, keyed by the logical
// vector id. Re-ingesting the same id replaces vector and payload.
func (r *QdrantRepository) Upsert(ctx context.Context, vectorID string, vector []float32, payload *VectorPayload) error {
	if vectorID == "" {
		return fmt.Errorf("empty vector id")
	}

	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: PointID(vectorID),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: vector,
					},
				},
			},
			Payload: payloadToValues(payload),
		},
	}

	_, err := r.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

func payloadToValues(payload *VectorPayload) map[string]*pb.Value {
	values := map[string]*pb.Value{
		"vector_id":   {Kind: &pb.Value_StringValue{StringValue: payload.VectorID}},
		"user_id":     {Kind: &pb.Value_StringValue{StringValue: payload.UserID}},
		"youtube_url": {Kind: &pb.Value_StringValue{StringValue: payload.YoutubeURL}},
		"video_title": {Kind: &pb.Value_StringValue{StringValue: payload.VideoTitle}},
		"type":        {Kind: &pb.Value_StringValue{StringValue: string(payload.Type)}},
		"text":        {Kind: &pb.Value_StringValue{StringValue: payload.Text}},
	}
	if payload.Type == domain.VectorTypeTranscriptChunk {
		values["chunk_index"] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(payload.ChunkIndex)}}
	}
	return values
}

// SearchResult represents a search result from Qdrant
type SearchResult struct {
	ID      string
	Score   float32
	Payload *VectorPayload
}

// SearchFilter defines the exact-match conjunction applied before similarity.
// Empty fields are skipped; all provided fields must match.
type SearchFilter struct {
	UserID     string
	YoutubeURL string
	Type       domain.VectorType
}

// Search performs a vector similarity search, ordered by descending cosine
// similarity. The filter is an exact-match pre-similarity predicate, so a
// query scoped to one (user, video) pair can never return another tenant's
// entries regardless of score.
func (r *QdrantRepository) Search(ctx context.Context, vector []float32, topK int, filter *SearchFilter) ([]SearchResult, error) {
	req := &pb.SearchPoints{
		CollectionName: r.collectionName,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	}

	if filter != nil {
		req.Filter = buildFilter(filter)
	}

	resp, err := r.pointsClient.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, len(resp.Result))
	for i, scored := range resp.Result {
		payload := parsePayload(scored.Payload)
		id := scored.Id.GetUuid()
		if payload != nil && payload.VectorID != "" {
			id = payload.VectorID
		}
		results[i] = SearchResult{
			ID:      id,
			Score:   scored.Score,
			Payload: payload,
		}
	}

	return results, nil
}

func buildFilter(filter *SearchFilter) *pb.Filter {
	var conditions []*pb.Condition

	if filter.UserID != "" {
		conditions = append(conditions, keywordCondition("user_id", filter.UserID))
	}
	if filter.YoutubeURL != "" {
		conditions = append(conditions, keywordCondition("youtube_url", filter.YoutubeURL))
	}
	if filter.Type != "" {
		conditions = append(conditions, keywordCondition("type", string(filter.Type)))
	}

	if len(conditions) == 0 {
		return nil
	}

	return &pb.Filter{
		Must: conditions,
	}
}

func keywordCondition(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

func parsePayload(payload map[string]*pb.Value) *VectorPayload {
	if payload == nil {
		return nil
	}

	p := &VectorPayload{}
	if v, ok := payload["vector_id"]; ok {
		p.VectorID = v.GetStringValue()
	}
	if v, ok := payload["user_id"]; ok {
		p.UserID = v.GetStringValue()
	}
	if v, ok := payload["youtube_url"]; ok {
		p.YoutubeURL = v.GetStringValue()
	}
	if v, ok := payload["video_title"]; ok {
		p.VideoTitle = v.GetStringValue()
	}
	if v, ok := payload["type"]; ok {
		p.Type = domain.VectorType(v.GetStringValue())
	}
	if v, ok := payload["chunk_index"]; ok {
		p.ChunkIndex = int(v.GetIntegerValue())
	}
	if v, ok := payload["text"]; ok {
		p.Text = v.GetStringValue()
	}

	return p
}

// Delete deletes a point by its logical vector id
func (r *QdrantRepository) Delete(ctx context.Context, vectorID string) error {
	_, err := r.pointsClient.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collectionName,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(vectorID)}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}

	return nil
}
