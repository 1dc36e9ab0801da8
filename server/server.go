package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	cfgPkg "github.com/rimsha-sudo/RAG-Chatbot/pkg/config"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/extractor"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/pipeline"
)

const maxUploadBytes = 32 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	// Name and Data carry a document for "load" messages; Data is
	// base64 on the wire.
	Name string `json:"name,omitempty"`
	Data []byte `json:"data,omitempty"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer        string  `json:"answer"`
	Confidence    float64 `json:"confidence"`
	SourceChunkID int     `json:"source_chunk_id"`
	LowConfidence bool    `json:"low_confidence"`
}

type Server struct {
	config   *cfgPkg.Config
	pipeline *pipeline.Pipeline
	cleanup  func()
}

func NewServer(config *cfgPkg.Config) (*Server, error) {
	p, cleanup, err := pipeline.FromConfig(config, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline: %v", err)
	}

	return &Server{
		config:   config,
		pipeline: p,
		cleanup:  cleanup,
	}, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		http.Error(w, "missing document field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format, ok := extractor.FormatFromPath(header.Filename)
	if !ok {
		http.Error(w, fmt.Sprintf("unsupported file type: %s", header.Filename), http.StatusUnsupportedMediaType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusInternalServerError)
		return
	}

	err = s.pipeline.Ingest(r.Context(), models.Document{
		Name:   header.Filename,
		Format: format,
		Data:   data,
	})
	if err != nil {
		log.Printf("Error ingesting %s: %v", header.Filename, err)
		http.Error(w, fmt.Sprintf("failed to ingest document: %v", err), http.StatusUnprocessableEntity)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ingested", "name": header.Filename})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	answer, err := s.pipeline.Ask(r.Context(), req.Question)
	if err != nil {
		log.Printf("Error answering question: %v", err)
		http.Error(w, fmt.Sprintf("failed to answer: %v", err), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AskResponse{
		Answer:        answer.Text,
		Confidence:    answer.Confidence,
		SourceChunkID: answer.SourceChunkID,
		LowConfidence: answer.LowConfidence,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Each connection gets its own pipeline, so concurrent clients
	// cannot replace each other's document.
	p, cleanup, err := pipeline.FromConfig(s.config, nil)
	if err != nil {
		log.Printf("Error creating session pipeline: %v", err)
		s.sendMessage(conn, "error", "failed to start session")
		return
	}
	defer cleanup()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.handleMessage(r, conn, p, msg)
	}
}

func (s *Server) handleMessage(r *http.Request, conn *websocket.Conn, p *pipeline.Pipeline, msg Message) {
	switch msg.Type {
	case "load":
		format, ok := extractor.FormatFromPath(msg.Name)
		if !ok {
			s.sendMessage(conn, "error", fmt.Sprintf("unsupported file type: %s", msg.Name))
			return
		}

		err := p.Ingest(r.Context(), models.Document{
			Name:   msg.Name,
			Format: format,
			Data:   msg.Data,
		})
		if err != nil {
			s.sendMessage(conn, "error", fmt.Sprintf("failed to ingest %s: %v", msg.Name, err))
			return
		}

		s.sendMessage(conn, "status", fmt.Sprintf("ingested %s", msg.Name))
	case "ask":
		if !p.Ready() {
			s.sendMessage(conn, "error", "no document loaded yet")
			return
		}

		answer, err := p.Ask(r.Context(), msg.Content)
		if err != nil {
			s.sendMessage(conn, "error", fmt.Sprintf("Error: %v", err))
			return
		}

		s.sendMessage(conn, "response", answer.Text)
		if answer.LowConfidence {
			s.sendMessage(conn, "status", fmt.Sprintf("low confidence: %.2f", answer.Confidence))
		}
	default:
		s.sendMessage(conn, "error", fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (s *Server) sendMessage(conn *websocket.Conn, msgType string, content string) {
	msg := Message{
		Type:    msgType,
		Content: content,
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func main() {
	_ = godotenv.Load()

	config, err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}

	server, err := NewServer(config)
	if err != nil {
		log.Fatal(err)
	}
	defer server.cleanup()

	http.HandleFunc("/upload", server.handleUpload)
	http.HandleFunc("/ask", server.handleAsk)
	http.HandleFunc("/ws", server.handleWebSocket)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (*cfgPkg.Config, error) {
	var configPath, baseURL, dbURL string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&baseURL, "ollama-url", "", "Ollama server URL")
	flag.StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	flag.Parse()

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Command line flags take precedence over file and environment values.
	if baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL != "" {
		config.Index.URL = dbURL
		config.Index.Backend = "pgvector"
	}

	if errs := config.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("config: %v", e)
		}
		return nil, fmt.Errorf("invalid configuration")
	}

	return config, nil
}
