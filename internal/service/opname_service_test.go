package service_test

import (
	"testing"

	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newOpnameService(db *gorm.DB) service.OpnameService {
	return service.NewOpnameService(
		repository.NewOpnameRepo(db),
		repository.NewStockRepo(db),
		db, nil,
	)
}

func TestStartSnapshotsSystemQty(t *testing.T) {
	db := setupTestDB(t, "opname_start")
	svc := newOpnameService(db)

	product := seedProduct(t, db, "OS-400")
	toko := placeByCode(t, db, model.PlaceToko)
	entry := seedInventory(t, db, product.ID, toko.ID, 12)

	header, err := svc.Start(&service.StartOpnameRequest{
		InventoryIDs: []uuid.UUID{entry.ID},
		Tanggal:      day("2025-05-01"),
	}, "operator-1")
	assert.NoError(t, err)
	assert.Equal(t, model.OpnameDraft, header.Status)
	assert.Equal(t, "operator-1", header.Operator)
	assert.Len(t, header.Details, 1)
	assert.Equal(t, 12, header.Details[0].SystemQty)
	assert.Nil(t, header.Details[0].PhysicalQty)
}

func TestFinalizeRejectsUncountedRows(t *testing.T) {
	db := setupTestDB(t, "opname_incomplete")
	svc := newOpnameService(db)

	product := seedProduct(t, db, "OS-401")
	other := seedProduct(t, db, "OS-402")
	toko := placeByCode(t, db, model.PlaceToko)
	a := seedInventory(t, db, product.ID, toko.ID, 5)
	b := seedInventory(t, db, other.ID, toko.ID, 8)

	header, err := svc.Start(&service.StartOpnameRequest{
		InventoryIDs: []uuid.UUID{a.ID, b.ID},
		Tanggal:      day("2025-05-01"),
	}, "operator-1")
	assert.NoError(t, err)

	// Hanya satu baris yang dihitung.
	_, err = svc.RecordCount(header.Details[0].ID, 5, "", "operator-1")
	assert.NoError(t, err)

	_, err = svc.Finalize(header.ID, "operator-1")
	assert.Equal(t, apperr.CodeIncompleteCount, apperr.CodeOf(err))

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Fields, 1)

	// Header masih draft, ledger tak tersentuh.
	reloaded, err := svc.GetByID(header.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.OpnameDraft, reloaded.Status)
	var movements int64
	db.Model(&model.StockMovement{}).Count(&movements)
	assert.Equal(t, int64(0), movements)
}

func TestFinalizeWritesCorrectiveMovements(t *testing.T) {
	db := setupTestDB(t, "opname_finalize")
	svc := newOpnameService(db)

	surplus := seedProduct(t, db, "OS-403")
	shortage := seedProduct(t, db, "OS-404")
	match := seedProduct(t, db, "OS-405")
	toko := placeByCode(t, db, model.PlaceToko)
	a := seedInventory(t, db, surplus.ID, toko.ID, 5)
	b := seedInventory(t, db, shortage.ID, toko.ID, 8)
	c := seedInventory(t, db, match.ID, toko.ID, 3)

	header, err := svc.Start(&service.StartOpnameRequest{
		InventoryIDs: []uuid.UUID{a.ID, b.ID, c.ID},
		Tanggal:      day("2025-05-01"),
	}, "operator-1")
	assert.NoError(t, err)

	byInventory := map[uuid.UUID]uuid.UUID{}
	for _, d := range header.Details {
		byInventory[d.InventoryID] = d.ID
	}
	_, err = svc.RecordCount(byInventory[a.ID], 7, "nemu di rak belakang", "operator-1")
	assert.NoError(t, err)
	_, err = svc.RecordCount(byInventory[b.ID], 6, "", "operator-1")
	assert.NoError(t, err)
	_, err = svc.RecordCount(byInventory[c.ID], 3, "", "operator-1")
	assert.NoError(t, err)

	header, err = svc.Finalize(header.ID, "operator-1")
	assert.NoError(t, err)
	assert.Equal(t, model.OpnameSelesai, header.Status)

	// Ledger menyesuaikan ke hitungan fisik.
	var afterA, afterB, afterC model.Inventory
	assert.NoError(t, db.First(&afterA, "id = ?", a.ID).Error)
	assert.NoError(t, db.First(&afterB, "id = ?", b.ID).Error)
	assert.NoError(t, db.First(&afterC, "id = ?", c.ID).Error)
	assert.Equal(t, 7, afterA.Qty)
	assert.Equal(t, 6, afterB.Qty)
	assert.Equal(t, 3, afterC.Qty)

	// Selisih nol tidak menghasilkan movement; plus jadi in, minus jadi out.
	var movements []model.StockMovement
	assert.NoError(t, db.Find(&movements).Error)
	assert.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, model.RefStokOpname, *m.RefType)
		assert.Equal(t, header.ID, *m.RefID)
		switch m.InventoryID {
		case a.ID:
			assert.Equal(t, model.MovementIn, m.Type)
			assert.Equal(t, 2, m.Qty)
		case b.ID:
			assert.Equal(t, model.MovementOut, m.Type)
			assert.Equal(t, 2, m.Qty)
		default:
			t.Fatalf("unexpected movement for inventory %s", m.InventoryID)
		}
	}
}

func TestRecordCountOnlyWhileDraft(t *testing.T) {
	db := setupTestDB(t, "opname_locked")
	svc := newOpnameService(db)

	product := seedProduct(t, db, "OS-406")
	toko := placeByCode(t, db, model.PlaceToko)
	entry := seedInventory(t, db, product.ID, toko.ID, 4)

	header, err := svc.Start(&service.StartOpnameRequest{
		InventoryIDs: []uuid.UUID{entry.ID},
		Tanggal:      day("2025-05-01"),
	}, "operator-1")
	assert.NoError(t, err)

	detailID := header.Details[0].ID
	_, err = svc.RecordCount(detailID, 4, "", "operator-1")
	assert.NoError(t, err)

	_, err = svc.Finalize(header.ID, "operator-1")
	assert.NoError(t, err)

	// Setelah selesai, hitungan baru ditolak.
	_, err = svc.RecordCount(detailID, 9, "", "operator-1")
	assert.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))

	// Hitungan negatif ditolak.
	_, err = svc.RecordCount(detailID, -1, "", "operator-1")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestCancelledOpnameHasNoLedgerEffect(t *testing.T) {
	db := setupTestDB(t, "opname_cancel")
	svc := newOpnameService(db)

	product := seedProduct(t, db, "OS-407")
	toko := placeByCode(t, db, model.PlaceToko)
	entry := seedInventory(t, db, product.ID, toko.ID, 4)

	header, err := svc.Start(&service.StartOpnameRequest{
		InventoryIDs: []uuid.UUID{entry.ID},
		Tanggal:      day("2025-05-01"),
	}, "operator-1")
	assert.NoError(t, err)

	_, err = svc.RecordCount(header.Details[0].ID, 99, "", "operator-1")
	assert.NoError(t, err)

	header, err = svc.Cancel(header.ID, "operator-1")
	assert.NoError(t, err)
	assert.Equal(t, model.OpnameDibatalkan, header.Status)

	var after model.Inventory
	assert.NoError(t, db.First(&after, "id = ?", entry.ID).Error)
	assert.Equal(t, 4, after.Qty)
	var movements int64
	db.Model(&model.StockMovement{}).Count(&movements)
	assert.Equal(t, int64(0), movements)

	// Dibatalkan itu terminal: finalize maupun cancel ulang ditolak.
	_, err = svc.Finalize(header.ID, "operator-1")
	assert.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
	_, err = svc.Cancel(header.ID, "operator-1")
	assert.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
}
