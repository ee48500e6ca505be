package gemini

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.SearchService = (*Client)(nil)

// DefaultPollInterval is the delay between upload operation checks.
const DefaultPollInterval = 2 * time.Second

// groundingInstruction keeps answers inside the uploaded documents.
const groundingInstruction = "You are a helpful assistant that answers questions using only the " +
	"documents in the attached file search store. Cite the documents you used. " +
	"If the answer is not in the documents, reply: \"I don't have this information in the provided documents.\""

// Config configures a Client.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string
	// APIKeyFunc resolves the key on first use when APIKey is empty.
	APIKeyFunc func() (string, error)
	// Model answers questions. Defaults to domain.DefaultModel.
	Model string
	// RequestsPerSecond caps the request rate.
	RequestsPerSecond float64
	// PollInterval is the delay between upload operation checks.
	PollInterval time.Duration
	// BaseURL overrides the API endpoint.
	BaseURL string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// Client is a driven.SearchService backed by Gemini File Search stores.
// The underlying genai client is created on first use.
type Client struct {
	cfg     Config
	limiter *RateLimiter

	mu     sync.Mutex
	client *genai.Client
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultModel
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Client{
		cfg:     cfg,
		limiter: NewRateLimiter(RateLimitConfig{RequestsPerSecond: cfg.RequestsPerSecond}),
	}
}

// Model returns the generation model in use.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	key := c.cfg.APIKey
	if key == "" && c.cfg.APIKeyFunc != nil {
		resolved, err := c.cfg.APIKeyFunc()
		if err != nil {
			return nil, err
		}
		key = resolved
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.cfg.HTTPClient,
	}
	if c.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c.client = client
	return client, nil
}

// begin waits for the rate limiter and returns the genai client.
func (c *Client) begin(ctx context.Context) (*genai.Client, error) {
	client, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	return client, nil
}

// classify wraps err and starts a backoff when the API throttled us.
func (c *Client) classify(err error) error {
	if err == nil {
		return nil
	}
	if IsRateLimited(err) {
		c.limiter.RecordRateLimitError(0)
	}
	return WrapError(err)
}

// CreateCorpus creates a FileSearchStore.
func (c *Client) CreateCorpus(ctx context.Context, displayName string) (string, error) {
	client, err := c.begin(ctx)
	if err != nil {
		return "", err
	}

	store, err := client.FileSearchStores.Create(ctx, &genai.CreateFileSearchStoreConfig{
		DisplayName: displayName,
	})
	if err != nil {
		return "", c.classify(err)
	}
	if store.Name == "" {
		return "", fmt.Errorf("%w: create store returned no name", domain.ErrTransport)
	}

	logger.Debug("gemini: created store %s (%s)", store.Name, displayName)
	return store.Name, nil
}

// DeleteCorpus force-deletes a FileSearchStore and its documents.
func (c *Client) DeleteCorpus(ctx context.Context, corpusID string) error {
	client, err := c.begin(ctx)
	if err != nil {
		return err
	}

	err = client.FileSearchStores.Delete(ctx, corpusID, &genai.DeleteFileSearchStoreConfig{
		Force: genai.Ptr(true),
	})
	if err != nil {
		return c.classify(err)
	}

	logger.Debug("gemini: deleted store %s", corpusID)
	return nil
}

// GetCorpus returns the remote view of a FileSearchStore.
func (c *Client) GetCorpus(ctx context.Context, corpusID string) (*domain.CorpusInfo, error) {
	client, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}

	store, err := client.FileSearchStores.Get(ctx, corpusID, nil)
	if err != nil {
		return nil, c.classify(err)
	}

	return &domain.CorpusInfo{
		ID:           store.Name,
		DisplayName:  store.DisplayName,
		CreatedAt:    store.CreateTime,
		UpdatedAt:    store.UpdateTime,
		ActiveCount:  store.ActiveDocumentsCount,
		PendingCount: store.PendingDocumentsCount,
		FailedCount:  store.FailedDocumentsCount,
		SizeBytes:    store.SizeBytes,
	}, nil
}

// UploadDocument uploads content to the store and waits for indexing.
func (c *Client) UploadDocument(ctx context.Context, corpusID string, content []byte, fileName string) (string, error) {
	client, err := c.begin(ctx)
	if err != nil {
		return "", err
	}

	op, err := client.FileSearchStores.UploadToFileSearchStore(ctx, bytes.NewReader(content), corpusID,
		&genai.UploadToFileSearchStoreConfig{
			MIMEType:    DetectMIMEType(fileName, content),
			DisplayName: fileName,
		})
	if err != nil {
		return "", c.classify(err)
	}

	logger.Debug("gemini: uploaded %s, waiting for operation %s", fileName, op.Name)

	op, err = c.wait(ctx, client, op)
	if err != nil {
		return "", err
	}
	if op.Response == nil || op.Response.DocumentName == "" {
		return "", fmt.Errorf("%w: operation %s finished without a document", domain.ErrTransport, op.Name)
	}
	return op.Response.DocumentName, nil
}

// wait polls an upload operation until it is done.
func (c *Client) wait(ctx context.Context, client *genai.Client, op *genai.UploadToFileSearchStoreOperation) (*genai.UploadToFileSearchStoreOperation, error) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrTransport, ctx.Err())
		case <-ticker.C:
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		next, err := client.Operations.GetUploadToFileSearchStoreOperation(ctx, op, nil)
		if err != nil {
			return nil, c.classify(err)
		}
		op = next
	}

	if len(op.Error) > 0 {
		return nil, operationError(op.Error)
	}
	return op, nil
}

// operationError converts a google.rpc.Status map into an error.
// Indexing failures are reported as invalid input so the service records
// the message as the upload failure reason.
func operationError(status map[string]any) error {
	msg, _ := status["message"].(string)
	if msg == "" {
		msg = fmt.Sprintf("%v", status)
	}
	return fmt.Errorf("%w: indexing failed: %s", domain.ErrInvalidInput, msg)
}

// ListDocuments lists every document in a store, following pagination.
func (c *Client) ListDocuments(ctx context.Context, corpusID string) ([]domain.RemoteDocument, error) {
	client, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}

	var docs []domain.RemoteDocument
	for doc, err := range client.FileSearchStores.Documents.All(ctx, corpusID) {
		if err != nil {
			return nil, c.classify(err)
		}
		docs = append(docs, domain.RemoteDocument{
			ID:          doc.Name,
			DisplayName: doc.DisplayName,
			Status:      documentStatus(doc.State),
			SizeBytes:   doc.SizeBytes,
			MIMEType:    doc.MIMEType,
			CreatedAt:   doc.CreateTime,
		})
	}
	return docs, nil
}

func documentStatus(state genai.DocumentState) domain.DocumentStatus {
	switch state {
	case genai.DocumentStatePending:
		return domain.DocumentPending
	case genai.DocumentStateFailed:
		return domain.DocumentFailed
	default:
		return domain.DocumentActive
	}
}

// DeleteDocument force-deletes a document and its chunks.
func (c *Client) DeleteDocument(ctx context.Context, corpusID, documentID string) error {
	client, err := c.begin(ctx)
	if err != nil {
		return err
	}

	name := documentID
	if !strings.Contains(name, "/documents/") {
		name = corpusID + "/documents/" + documentID
	}

	err = client.FileSearchStores.Documents.Delete(ctx, name, &genai.DeleteDocumentConfig{
		Force: genai.Ptr(true),
	})
	if err != nil {
		return c.classify(err)
	}

	logger.Debug("gemini: deleted document %s", name)
	return nil
}

// Query answers a question grounded on the store with the file search tool.
func (c *Client) Query(ctx context.Context, corpusID, question string) (*domain.QueryResult, error) {
	client, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(question), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(groundingInstruction, genai.RoleUser),
		Tools: []*genai.Tool{{
			FileSearch: &genai.FileSearch{FileSearchStoreNames: []string{corpusID}},
		}},
	})
	if err != nil {
		return nil, c.classify(err)
	}

	return &domain.QueryResult{
		Answer:  strings.TrimSpace(resp.Text()),
		Sources: groundingSources(resp),
	}, nil
}

// groundingSources collects the distinct titles of retrieved documents.
func groundingSources(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]bool)
	var sources []string
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.RetrievedContext == nil {
			continue
		}
		title := chunk.RetrievedContext.Title
		if title == "" {
			title = chunk.RetrievedContext.DocumentName
		}
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		sources = append(sources, title)
	}
	sort.Strings(sources)
	return sources
}

// DetectMIMEType picks a MIME type from the file extension, falling back
// to content sniffing. Plain text is the last resort.
func DetectMIMEType(fileName string, content []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); t != "" {
		return t
	}
	if len(content) > 0 {
		return http.DetectContentType(content)
	}
	return "text/plain"
}
