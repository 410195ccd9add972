package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/hub"
	"github.com/GodfreyDev/CahootKlone/internal/quiz"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func ListQuizzes(catalog quiz.Catalog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizzes, err := catalog.ListQuizzes(r.Context())
		if err != nil {
			log.Error("listing quizzes failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Error fetching quizzes")
			return
		}
		writeJSON(w, http.StatusOK, quizzes)
	}
}

func GetQuiz(catalog quiz.Catalog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := catalog.GetQuiz(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, quiz.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Quiz not found")
			return
		}
		if err != nil {
			log.Error("fetching quiz failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Error fetching single quiz")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func CreateQuiz(catalog quiz.Catalog, h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid quiz data")
			return
		}
		id, err := catalog.CreateQuiz(r.Context(), &q)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Info("quiz created", zap.String("quiz_id", id))
		notifyQuizzesChanged(h)
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Quiz created successfully", "id": id})
	}
}

func UpdateQuiz(catalog quiz.Catalog, h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid quiz data")
			return
		}
		q.ID = chi.URLParam(r, "id")
		err := catalog.UpdateQuiz(r.Context(), &q)
		if errors.Is(err, quiz.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Quiz not found")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Info("quiz updated", zap.String("quiz_id", q.ID))
		notifyQuizzesChanged(h)
		writeMessage(w, http.StatusOK, "Quiz updated successfully")
	}
}

func DeleteQuiz(catalog quiz.Catalog, h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := catalog.DeleteQuiz(r.Context(), id)
		if errors.Is(err, quiz.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Quiz not found")
			return
		}
		if err != nil {
			log.Error("deleting quiz failed", zap.String("quiz_id", id), zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Error deleting quiz")
			return
		}
		log.Info("quiz deleted", zap.String("quiz_id", id))
		notifyQuizzesChanged(h)
		writeMessage(w, http.StatusOK, "Quiz deleted successfully")
	}
}

// JoinQR renders the join link for a PIN as a QR PNG for the host screen.
func JoinQR(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pin := r.URL.Query().Get("pin")
		if pin == "" {
			writeMessage(w, http.StatusBadRequest, "pin is required")
			return
		}
		png, err := qrcode.Encode(fmt.Sprintf("%s/?pin=%s", baseURL, pin), qrcode.Medium, 256)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Error generating QR code")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// notifyQuizzesChanged tells waiting lobbies to refresh their quiz lists
// after any catalog mutation.
func notifyQuizzesChanged(h *hub.Hub) {
	select {
	case h.Inbox() <- hub.QuizzesChanged{}:
	case <-h.Done():
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
