package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fstark/kimreader/pkg/tape"
	"github.com/fstark/kimreader/pkg/tapewav"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP API exposing decode and encode",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		host, _ := cmd.Flags().GetString("host")
		return runServer(host, port)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8080", "server port")
	serveCmd.Flags().StringP("host", "H", "0.0.0.0", "server host")
}

func runServer(host, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/decode", handleDecode)
	mux.HandleFunc("/api/encode", handleEncode)

	handler := corsMiddleware(loggingMiddleware(mux))

	addr := fmt.Sprintf("%s:%s", host, port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	fmt.Printf("Starting server on http://%s\n", addr)
	fmt.Println("\nEndpoints:")
	fmt.Println("  GET  /health       - Health check")
	fmt.Println("  POST /api/decode   - Upload a WAV, get back recovered records as JSON")
	fmt.Println("  POST /api/encode   - POST a Record as JSON, get back a WAV")

	return server.ListenAndServe()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"version": version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

type decodedRecord struct {
	ID       uint8  `json:"id"`
	Addr     uint16 `json:"addr"`
	Payload  string `json:"payload_hex"`
	Checksum uint16 `json:"checksum"`
}

func handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(200 << 20); err != nil {
		jsonError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "No file provided. Use 'file' form field.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "kimreader-decode-*.wav")
	if err != nil {
		jsonError(w, "Server error: cannot create temp file", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		jsonError(w, "Failed to save uploaded file", http.StatusInternalServerError)
		return
	}

	records, _, err := decodeFile(tmp.Name())
	if err != nil {
		jsonError(w, "Decode failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	out := make([]decodedRecord, len(records))
	for i, rec := range records {
		data := rec.Payload
		if len(data) > 3 {
			data = data[3:]
		} else {
			data = nil
		}
		out[i] = decodedRecord{
			ID:       rec.ID,
			Addr:     rec.Addr,
			Payload:  fmt.Sprintf("%X", data),
			Checksum: rec.Checksum,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"records": out})
}

func handleEncode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req decodedRecord
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	data, err := hexToBytes(req.Payload)
	if err != nil {
		jsonError(w, "payload_hex is not valid hex: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec := tape.Record{
		ID:      req.ID,
		Addr:    req.Addr,
		Payload: append([]byte{req.ID, byte(req.Addr), byte(req.Addr >> 8)}, data...),
	}
	rec.Checksum = rec.ComputeChecksum()

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `attachment; filename="record.wav"`)
	if err := tapewav.Write(w, tape.EncodeWAVSamples(rec), 44100); err != nil {
		jsonError(w, "Encode failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

func hexToBytes(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		fmt.Printf("%s %s %s %v\n", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start).Round(time.Millisecond))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
