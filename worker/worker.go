package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"algocom-api/config"
	"algocom-api/fetcher"
	"algocom-api/model"
)

const (
	subjectFetchRequest = "news.fetch.request"
	subjectFetchResult  = "news.fetch.result"
)

// FetchRequest asks the worker to refresh headlines for a query.
type FetchRequest struct {
	Query     string `json:"query"`
	RequestID string `json:"requestId"`
}

type FetchResult struct {
	RequestID    string    `json:"requestId"`
	ArticleCount int       `json:"articleCount"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// Worker owns the write side of caching-on-read: the feed hands freshly
// fetched articles to Enqueue, and the worker persists them off the request
// path. It also refreshes headlines periodically, and on demand over NATS
// when a NATS URL is configured.
type Worker struct {
	cfg     *config.Config
	fetcher *fetcher.Fetcher
	queue   chan []model.Article
	nc      *nats.Conn
}

func NewWorker(cfg *config.Config, f *fetcher.Fetcher) *Worker {
	return &Worker{
		cfg:     cfg,
		fetcher: f,
		queue:   make(chan []model.Article, cfg.UpsertQueue),
	}
}

// Enqueue hands articles to the worker without blocking. When the queue is
// full the batch is dropped; the next scheduled refresh picks the articles
// up again.
func (w *Worker) Enqueue(articles []model.Article) {
	if len(articles) == 0 {
		return
	}
	select {
	case w.queue <- articles:
	default:
		log.Printf("[WARN] Upsert queue full, dropping %d articles", len(articles))
	}
}

func (w *Worker) Start(ctx context.Context) error {
	if w.cfg.NATSUrl != "" {
		if err := w.connectNATS(); err != nil {
			log.Printf("[WARN] NATS unavailable, running on schedule only: %v", err)
		}
	}
	defer func() {
		if w.nc != nil {
			w.nc.Close()
		}
	}()

	ticker := time.NewTicker(w.cfg.FetchInterval)
	defer ticker.Stop()

	// warm the cache on startup
	w.refresh(ctx, FetchRequest{Query: "", RequestID: scheduledRequestID()})

	log.Println("Worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx, FetchRequest{Query: "", RequestID: scheduledRequestID()})
		case articles := <-w.queue:
			w.store(ctx, articles)
		}
	}
}

func (w *Worker) connectNATS() error {
	nc, err := nats.Connect(w.cfg.NATSUrl)
	if err != nil {
		return err
	}
	w.nc = nc

	_, err = nc.Subscribe(subjectFetchRequest, func(msg *nats.Msg) {
		var req FetchRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("Failed to unmarshal fetch request: %v", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.FetchTimeout+10*time.Second)
		defer cancel()
		w.refresh(ctx, req)
	})
	if err != nil {
		return err
	}

	log.Printf("Subscribed to %s", subjectFetchRequest)
	return nil
}

// refresh fetches a fresh page of headlines and upserts them.
func (w *Worker) refresh(ctx context.Context, req FetchRequest) {
	articles := w.fetcher.Fetch(ctx, req.Query)

	result := FetchResult{
		RequestID: req.RequestID,
		FetchedAt: time.Now(),
	}

	inserted, err := w.fetcher.UpsertByURL(ctx, articles)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Success = true
		result.ArticleCount = inserted
	}

	w.publishResult(result)
}

func (w *Worker) store(ctx context.Context, articles []model.Article) {
	if _, err := w.fetcher.UpsertByURL(ctx, articles); err != nil {
		log.Printf("[ERROR] Queued upsert failed: %v", err)
	}
}

func (w *Worker) publishResult(result FetchResult) {
	if w.nc == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to marshal fetch result: %v", err)
		return
	}

	if err := w.nc.Publish(subjectFetchResult, data); err != nil {
		log.Printf("Failed to publish fetch result: %v", err)
	}
}

func scheduledRequestID() string {
	return "scheduled-" + uuid.NewString()
}
