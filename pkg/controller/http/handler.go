package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/wire"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/dmsconsole/metaform/pkg/utils/errutil"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

// BatchLister lists every batch. It is served by the catalog use case.
type BatchLister interface {
	ListBatches(ctx context.Context) ([]*model.Batch, error)
}

// maxRequestBody bounds JSON request bodies
const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// header already committed
		_ = errutil.Handle(r.Context(), goerr.Wrap(err, "failed to encode response"), "failed to write response")
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return false
	}
	return true
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrMissingRequired),
		errors.Is(err, model.ErrMultipleValues),
		errors.Is(err, model.ErrEmptySubmission),
		errors.Is(err, model.ErrAmbiguousTarget),
		errors.Is(err, model.ErrMissingFileName),
		errors.Is(err, usecase.ErrInvalidDeliveryDate),
		errors.Is(err, usecase.ErrDeliveryDateRequired):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrItemNotFound),
		errors.Is(err, usecase.ErrBatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrBatchCommitted):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func pathItemID(w http.ResponseWriter, r *http.Request) (types.ItemID, bool) {
	raw := chi.URLParam(r, "item_id")
	id, err := types.ParseItemID(raw)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid item id", goerr.V("item_id", raw)), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func listFieldsHandler(svc interfaces.SchemaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs, err := svc.ListFields(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := make([]wire.FieldDefinition, 0, len(defs))
		for _, d := range defs {
			resp = append(resp, wire.FromFieldDefinition(d))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func listComponentTypesHandler(svc interfaces.SchemaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cts, err := svc.ListComponentTypes(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := make([]wire.ComponentType, 0, len(cts))
		for _, ct := range cts {
			resp = append(resp, wire.FromComponentType(ct))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func listGroupsHandler(svc interfaces.SchemaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.ListGroups(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := make([]wire.MetadataGroup, 0, len(groups))
		for _, g := range groups {
			resp = append(resp, wire.FromMetadataGroup(g))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func listDropdownsHandler(svc interfaces.DropdownService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dropdowns, err := svc.ListDropdowns(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := make([]wire.Dropdown, 0, len(dropdowns))
		for _, d := range dropdowns {
			resp = append(resp, wire.FromDropdown(d))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func submitValuesHandler(svc interfaces.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req wire.SubmitRequest
		if !readJSON(w, r, &req) {
			return
		}

		result, err := svc.SubmitValues(r.Context(), req.ToModel())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, wire.SubmitResponse{ItemID: int64(result.ItemID), Name: result.Name})
	}
}

func listFieldValuesHandler(svc interfaces.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathItemID(w, r)
		if !ok {
			return
		}

		values, err := svc.ListFieldValues(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := make([]wire.FieldValue, 0, len(values))
		for _, v := range values {
			resp = append(resp, wire.FromFieldValue(v))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func deleteItemHandler(svc interfaces.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathItemID(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listCurrentItemsHandler(svc interfaces.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := svc.ListItems(r.Context(), model.CurrentBatch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, wire.FromBatchItems(listing))
	}
}

func listBatchItemsHandler(svc interfaces.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "batch_id")
		id, err := types.ParseBatchID(raw)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid batch id", goerr.V("batch_id", raw)), http.StatusBadRequest)
			return
		}

		listing, err := svc.ListItems(r.Context(), model.BatchRefOf(id))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, wire.FromBatchItems(listing))
	}
}

func listBatchesHandler(lister BatchLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := lister.ListBatches(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := make([]*wire.Batch, 0, len(batches))
		for _, b := range batches {
			resp = append(resp, wire.FromBatch(b))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func commitBatchHandler(svc interfaces.BatchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req wire.CommitRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.DeliveryDate == "" {
			writeError(w, r, goerr.Wrap(usecase.ErrDeliveryDateRequired, "cannot commit batch"))
			return
		}

		ref := model.CurrentBatch
		if req.BatchID != nil {
			ref = model.BatchRefOf(types.BatchID(*req.BatchID))
		}

		batch, err := svc.CommitBatch(r.Context(), ref, req.DeliveryDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, wire.FromBatch(batch))
	}
}
