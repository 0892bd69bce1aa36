package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/metrics"
	"github.com/taskvault/taskvault/internal/middleware"
	"github.com/taskvault/taskvault/internal/store"
)

// RecordsHandler translates HTTP verbs on the record collection into
// store calls and status codes.
type RecordsHandler struct {
	store *store.FileStore
}

func NewRecordsHandler(fileStore *store.FileStore) *RecordsHandler {
	return &RecordsHandler{store: fileStore}
}

// List returns the full record sequence as a JSON array.
func (h *RecordsHandler) List(c *fiber.Ctx) error {
	log := middleware.GetLogger(c)
	log.Debug("Fetching all records")

	snap, err := h.store.FetchAll(c.UserContext())
	if err != nil {
		return h.storeError(c, "fetch", err)
	}

	log.Info("Records fetched", logger.Int("count", len(snap)))
	metrics.StoreOperationsTotal.WithLabelValues("fetch", "success").Inc()
	return c.JSON(snap)
}

// Create appends the posted record to the collection.
func (h *RecordsHandler) Create(c *fiber.Ctx) error {
	log := middleware.GetLogger(c)

	var rec store.Record
	if err := c.BodyParser(&rec); err != nil {
		log.Error("Failed to parse request body", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues("append", "bad_request").Inc()
		return middleware.BadRequest(c, "invalid JSON body")
	}

	if err := h.store.Append(c.UserContext(), rec); err != nil {
		return h.storeError(c, "append", err)
	}

	id, _ := rec.ID()
	log.Info("Record appended", logger.String("id", id))
	metrics.StoreOperationsTotal.WithLabelValues("append", "success").Inc()
	return middleware.OK(c)
}

// Update merges the posted fields into the record matching the posted id.
func (h *RecordsHandler) Update(c *fiber.Ctx) error {
	log := middleware.GetLogger(c)

	var update store.Record
	if err := c.BodyParser(&update); err != nil {
		log.Error("Failed to parse request body", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues("patch", "bad_request").Inc()
		return middleware.BadRequest(c, "invalid JSON body")
	}

	if err := h.store.Patch(c.UserContext(), update); err != nil {
		return h.storeError(c, "patch", err)
	}

	id, _ := update.ID()
	log.Info("Record updated", logger.String("id", id))
	metrics.StoreOperationsTotal.WithLabelValues("patch", "success").Inc()
	return middleware.OK(c)
}

// Delete removes the record addressed by the id path parameter.
func (h *RecordsHandler) Delete(c *fiber.Ctx) error {
	log := middleware.GetLogger(c)
	id := c.Params("id")

	if err := h.store.Delete(c.UserContext(), id); err != nil {
		return h.storeError(c, "delete", err)
	}

	log.Info("Record deleted", logger.String("id", id))
	metrics.StoreOperationsTotal.WithLabelValues("delete", "success").Inc()
	return middleware.OK(c)
}

// storeError maps a store failure onto the HTTP status contract.
func (h *RecordsHandler) storeError(c *fiber.Ctx, op string, err error) error {
	log := middleware.GetLogger(c)

	switch {
	case store.IsLockTimeout(err):
		log.Error("Store lock timed out", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "lock_timeout").Inc()
		return middleware.ServiceUnavailable(c, "store busy, try again")

	case store.IsSnapshotMissing(err):
		log.Warn("Snapshot file missing", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "missing").Inc()
		return middleware.NotFound(c, "store missing")

	case store.IsSnapshotCorrupt(err):
		log.Error("Snapshot file corrupted", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "corrupt").Inc()
		return middleware.InternalError(c, "store corrupted")

	case store.IsWriteFailure(err):
		log.Error("Snapshot write failed", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "write_failure").Inc()
		return middleware.InternalError(c, "store write failed")

	case store.IsMissingID(err):
		log.Warn("Record id missing from request")
		metrics.StoreOperationsTotal.WithLabelValues(op, "id_missing").Inc()
		return middleware.NotFound(c, "record id missing")

	case store.IsRecordNotFound(err):
		log.Warn("Record not found", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "not_found").Inc()
		return middleware.NotFound(c, "record not found")

	case store.IsEmptyPatch(err):
		log.Warn("Patch carried no updatable fields", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "empty_patch").Inc()
		return middleware.NotFound(c, "nothing to update")

	case store.IsDuplicateID(err):
		log.Warn("Duplicate record id", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "duplicate").Inc()
		return middleware.Conflict(c, "record already exists")

	default:
		log.Error("Store operation failed", logger.Error(err))
		metrics.StoreOperationsTotal.WithLabelValues(op, "error").Inc()
		return middleware.InternalError(c, "store operation failed")
	}
}
