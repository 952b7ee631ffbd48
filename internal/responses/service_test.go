package responses

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "giftforms/pkg/errors"
	"giftforms/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeTxRunner struct{}

func (f *fakeTxRunner) RunTx(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockResponseStore struct {
	mock.Mock
}

func (m *MockResponseStore) InsertResponseRecord(tx *goqu.TxDatabase, formID string, req SubmitResponseRequest) (string, error) {
	args := m.Called(tx, formID, req)
	return args.String(0), args.Error(1)
}

func (m *MockResponseStore) InsertClaimLines(tx *goqu.TxDatabase, responseID string, lines []models.ClaimLine) error {
	args := m.Called(tx, responseID, lines)
	return args.Error(0)
}

func (m *MockResponseStore) GetClaimLinesByResponseIDs(responseIDs []string) ([]models.ClaimLine, error) {
	args := m.Called(responseIDs)
	return args.Get(0).([]models.ClaimLine), args.Error(1)
}

func (m *MockResponseStore) DeleteClaimLines(responseIDs []string, keepItemIDs []string) error {
	args := m.Called(responseIDs, keepItemIDs)
	return args.Error(0)
}

func (m *MockResponseStore) DeleteResponsesWithoutLines(responseIDs []string) error {
	args := m.Called(responseIDs)
	return args.Error(0)
}

func (m *MockResponseStore) GetFormResponses(formID string) ([]models.FormResponse, error) {
	args := m.Called(formID)
	return args.Get(0).([]models.FormResponse), args.Error(1)
}

type MockItemReader struct {
	mock.Mock
}

func (m *MockItemReader) GetItemsByIDs(tx *goqu.TxDatabase, formID string, ids []string) ([]models.FormItem, error) {
	args := m.Called(tx, formID, ids)
	return args.Get(0).([]models.FormItem), args.Error(1)
}

type MockQuestionReader struct {
	mock.Mock
}

func (m *MockQuestionReader) GetFormQuestions(formID string) ([]models.Question, error) {
	args := m.Called(formID)
	return args.Get(0).([]models.Question), args.Error(1)
}

type MockStockWriter struct {
	mock.Mock
}

func (m *MockStockWriter) ApplyDelta(itemID string, delta int) (int, error) {
	args := m.Called(itemID, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockStockWriter) ApplyDeltaTx(tx *goqu.TxDatabase, itemID string, delta int) (int, error) {
	args := m.Called(tx, itemID, delta)
	return args.Int(0), args.Error(1)
}

func newMockedService(rr *MockResponseStore, ir *MockItemReader, qr *MockQuestionReader, sw *MockStockWriter) *ResponseService {
	return &ResponseService{
		tx:        &fakeTxRunner{},
		responses: rr,
		items:     ir,
		questions: qr,
		stock:     sw,
	}
}

func TestSubmitResponse(t *testing.T) {
	rr := new(MockResponseStore)
	ir := new(MockItemReader)
	qr := new(MockQuestionReader)
	sw := new(MockStockWriter)
	service := newMockedService(rr, ir, qr, sw)

	req := SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   100,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 2}},
	}

	item := models.FormItem{
		ID:             "item-1",
		FormID:         "form-1",
		CurrentStock:   10,
		InitialStock:   10,
		Price:          50,
		MaxPerResponse: 2,
		IsActive:       true,
	}

	expectedLines := []models.ClaimLine{{FormItemID: "item-1", Quantity: 2}}

	qr.On("GetFormQuestions", "form-1").Return([]models.Question{}, nil).Once()
	ir.On("GetItemsByIDs", (*goqu.TxDatabase)(nil), "form-1", []string{"item-1"}).Return([]models.FormItem{item}, nil).Once()
	rr.On("InsertResponseRecord", (*goqu.TxDatabase)(nil), "form-1", req).Return("resp-1", nil).Once()
	rr.On("InsertClaimLines", (*goqu.TxDatabase)(nil), "resp-1", expectedLines).Return(nil).Once()
	sw.On("ApplyDeltaTx", (*goqu.TxDatabase)(nil), "item-1", -2).Return(8, nil).Once()

	response, err := service.SubmitResponse("form-1", req)

	assert.NoError(t, err)
	assert.Equal(t, "resp-1", response.ID)
	assert.Equal(t, expectedLines, response.Items)

	rr.AssertExpectations(t)
	ir.AssertExpectations(t)
	sw.AssertExpectations(t)
}

func TestSubmitResponseRejectsBadInput(t *testing.T) {
	service := newMockedService(new(MockResponseStore), new(MockItemReader), new(MockQuestionReader), new(MockStockWriter))

	_, err := service.SubmitResponse("form-1", SubmitResponseRequest{
		OrderAmount: 0,
		Claims:      []ClaimRequest{{ItemID: "item-1", Quantity: 1}},
	})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = service.SubmitResponse("form-1", SubmitResponseRequest{OrderAmount: 100})
	assert.ErrorAs(t, err, &validationErr)
}

func TestSubmitResponseRejectsIneligibleItem(t *testing.T) {
	rr := new(MockResponseStore)
	ir := new(MockItemReader)
	qr := new(MockQuestionReader)
	sw := new(MockStockWriter)
	service := newMockedService(rr, ir, qr, sw)

	// item unlocks at 150, respondent declared 100
	item := models.FormItem{
		ID:             "item-1",
		CurrentStock:   5,
		Price:          150,
		MaxPerResponse: 2,
		IsActive:       true,
	}

	qr.On("GetFormQuestions", "form-1").Return([]models.Question{}, nil).Once()
	ir.On("GetItemsByIDs", (*goqu.TxDatabase)(nil), "form-1", []string{"item-1"}).Return([]models.FormItem{item}, nil).Once()

	_, err := service.SubmitResponse("form-1", SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   100,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 1}},
	})

	var eligibilityErr *apperrors.EligibilityError
	assert.ErrorAs(t, err, &eligibilityErr)
	assert.Equal(t, "item-1", eligibilityErr.ItemID)

	rr.AssertNotCalled(t, "InsertResponseRecord", mock.Anything, mock.Anything, mock.Anything)
	sw.AssertNotCalled(t, "ApplyDeltaTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitResponseRejectsTotalAboveOrderAmount(t *testing.T) {
	rr := new(MockResponseStore)
	ir := new(MockItemReader)
	qr := new(MockQuestionReader)
	sw := new(MockStockWriter)
	service := newMockedService(rr, ir, qr, sw)

	item := models.FormItem{
		ID:             "item-1",
		CurrentStock:   10,
		Price:          60,
		MaxPerResponse: 5,
		IsActive:       true,
	}

	qr.On("GetFormQuestions", "form-1").Return([]models.Question{}, nil).Once()
	ir.On("GetItemsByIDs", (*goqu.TxDatabase)(nil), "form-1", []string{"item-1"}).Return([]models.FormItem{item}, nil).Once()

	// 2 x 60 = 120 > 100
	_, err := service.SubmitResponse("form-1", SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   100,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 2}},
	})

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	rr.AssertNotCalled(t, "InsertResponseRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitResponseClampsRequestedQuantity(t *testing.T) {
	rr := new(MockResponseStore)
	ir := new(MockItemReader)
	qr := new(MockQuestionReader)
	sw := new(MockStockWriter)
	service := newMockedService(rr, ir, qr, sw)

	item := models.FormItem{
		ID:             "item-1",
		CurrentStock:   5,
		Price:          0,
		MaxPerResponse: 3,
		IsActive:       true,
	}

	// requested 10, cap 3, stock 5: accepted quantity is 3
	expectedLines := []models.ClaimLine{{FormItemID: "item-1", Quantity: 3}}

	qr.On("GetFormQuestions", "form-1").Return([]models.Question{}, nil).Once()
	ir.On("GetItemsByIDs", (*goqu.TxDatabase)(nil), "form-1", []string{"item-1"}).Return([]models.FormItem{item}, nil).Once()
	rr.On("InsertResponseRecord", (*goqu.TxDatabase)(nil), "form-1", mock.Anything).Return("resp-1", nil).Once()
	rr.On("InsertClaimLines", (*goqu.TxDatabase)(nil), "resp-1", expectedLines).Return(nil).Once()
	sw.On("ApplyDeltaTx", (*goqu.TxDatabase)(nil), "item-1", -3).Return(2, nil).Once()

	response, err := service.SubmitResponse("form-1", SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   50,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 10}},
	})

	assert.NoError(t, err)
	assert.Equal(t, expectedLines, response.Items)
	sw.AssertExpectations(t)
}

func TestSubmitResponseRequiresAnswersToRequiredQuestions(t *testing.T) {
	rr := new(MockResponseStore)
	ir := new(MockItemReader)
	qr := new(MockQuestionReader)
	sw := new(MockStockWriter)
	service := newMockedService(rr, ir, qr, sw)

	questions := []models.Question{
		{ID: "q-1", FormID: "form-1", Label: "Delivery window", Kind: models.AnswerKindText, Required: true},
	}
	qr.On("GetFormQuestions", "form-1").Return(questions, nil).Once()

	_, err := service.SubmitResponse("form-1", SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   100,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 1}},
	})

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	ir.AssertNotCalled(t, "GetItemsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteResponsesRejectsEmptyInput(t *testing.T) {
	rr := new(MockResponseStore)
	sw := new(MockStockWriter)
	service := newMockedService(rr, new(MockItemReader), new(MockQuestionReader), sw)

	err := service.DeleteResponses(nil)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	rr.AssertNotCalled(t, "GetClaimLinesByResponseIDs", mock.Anything)
	sw.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything)
}

func TestDeleteResponsesRestoresAggregatedStock(t *testing.T) {
	rr := new(MockResponseStore)
	sw := new(MockStockWriter)
	service := newMockedService(rr, new(MockItemReader), new(MockQuestionReader), sw)

	responseIDs := []string{"resp-1", "resp-2"}
	lines := []models.ClaimLine{
		{ResponseID: "resp-1", FormItemID: "item-1", Quantity: 2},
		{ResponseID: "resp-2", FormItemID: "item-1", Quantity: 1},
		{ResponseID: "resp-2", FormItemID: "item-2", Quantity: 4},
	}

	rr.On("GetClaimLinesByResponseIDs", responseIDs).Return(lines, nil).Once()
	sw.On("ApplyDelta", "item-1", 3).Return(10, nil).Once()
	sw.On("ApplyDelta", "item-2", 4).Return(7, nil).Once()
	rr.On("DeleteClaimLines", responseIDs, []string(nil)).Return(nil).Once()
	rr.On("DeleteResponsesWithoutLines", responseIDs).Return(nil).Once()

	err := service.DeleteResponses(responseIDs)

	assert.NoError(t, err)
	rr.AssertExpectations(t)
	sw.AssertExpectations(t)
}

func TestDeleteResponsesReportsPartialFailure(t *testing.T) {
	rr := new(MockResponseStore)
	sw := new(MockStockWriter)
	service := newMockedService(rr, new(MockItemReader), new(MockQuestionReader), sw)

	responseIDs := []string{"resp-1"}
	lines := []models.ClaimLine{
		{ResponseID: "resp-1", FormItemID: "item-1", Quantity: 2},
		{ResponseID: "resp-1", FormItemID: "item-2", Quantity: 1},
	}

	rr.On("GetClaimLinesByResponseIDs", responseIDs).Return(lines, nil).Once()
	sw.On("ApplyDelta", "item-1", 2).Return(0, errors.New("connection reset")).Once()
	sw.On("ApplyDelta", "item-2", 1).Return(5, nil).Once()
	// the failed item's lines are kept so a retry can restore them
	rr.On("DeleteClaimLines", responseIDs, []string{"item-1"}).Return(nil).Once()
	rr.On("DeleteResponsesWithoutLines", responseIDs).Return(nil).Once()

	err := service.DeleteResponses(responseIDs)

	var partial *apperrors.PartialFailure
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"item-1"}, partial.FailedItemIDs)
	rr.AssertExpectations(t)
}

// fakeWorld is an in-memory ledger and response store used for the
// end-to-end lifecycle scenarios. Reads serve the snapshot taken at
// construction so two "concurrent" submissions both validate against the
// same starting state; deltas apply to live counters with the zero floor.
type fakeWorld struct {
	mu        sync.Mutex
	snapshot  map[string]models.FormItem
	stock     map[string]int
	lines     map[string][]models.ClaimLine
	responses map[string]bool
	nextID    int
}

func newFakeWorld(items ...models.FormItem) *fakeWorld {
	w := &fakeWorld{
		snapshot:  make(map[string]models.FormItem),
		stock:     make(map[string]int),
		lines:     make(map[string][]models.ClaimLine),
		responses: make(map[string]bool),
	}
	for _, item := range items {
		w.snapshot[item.ID] = item
		w.stock[item.ID] = item.CurrentStock
	}
	return w
}

func (w *fakeWorld) GetItemsByIDs(_ *goqu.TxDatabase, formID string, ids []string) ([]models.FormItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var result []models.FormItem
	for _, id := range ids {
		if item, ok := w.snapshot[id]; ok && item.FormID == formID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (w *fakeWorld) GetFormQuestions(string) ([]models.Question, error) {
	return nil, nil
}

func (w *fakeWorld) ApplyDelta(itemID string, delta int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stock[itemID] = clampStock(w.stock[itemID], delta)
	return w.stock[itemID], nil
}

func (w *fakeWorld) ApplyDeltaTx(_ *goqu.TxDatabase, itemID string, delta int) (int, error) {
	return w.ApplyDelta(itemID, delta)
}

func (w *fakeWorld) InsertResponseRecord(_ *goqu.TxDatabase, formID string, _ SubmitResponseRequest) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := fmt.Sprintf("resp-%d", w.nextID)
	w.responses[id] = true
	return id, nil
}

func (w *fakeWorld) InsertClaimLines(_ *goqu.TxDatabase, responseID string, lines []models.ClaimLine) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, line := range lines {
		line.ResponseID = responseID
		w.lines[responseID] = append(w.lines[responseID], line)
	}
	return nil
}

func (w *fakeWorld) GetClaimLinesByResponseIDs(responseIDs []string) ([]models.ClaimLine, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var result []models.ClaimLine
	for _, id := range responseIDs {
		result = append(result, w.lines[id]...)
	}
	return result, nil
}

func (w *fakeWorld) DeleteClaimLines(responseIDs []string, keepItemIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	keep := make(map[string]bool, len(keepItemIDs))
	for _, id := range keepItemIDs {
		keep[id] = true
	}
	for _, id := range responseIDs {
		var remaining []models.ClaimLine
		for _, line := range w.lines[id] {
			if keep[line.FormItemID] {
				remaining = append(remaining, line)
			}
		}
		if len(remaining) == 0 {
			delete(w.lines, id)
		} else {
			w.lines[id] = remaining
		}
	}
	return nil
}

func (w *fakeWorld) DeleteResponsesWithoutLines(responseIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range responseIDs {
		if len(w.lines[id]) == 0 {
			delete(w.responses, id)
		}
	}
	return nil
}

func (w *fakeWorld) GetFormResponses(string) ([]models.FormResponse, error) {
	return nil, nil
}

func newWorldService(w *fakeWorld) *ResponseService {
	return &ResponseService{
		tx:        &fakeTxRunner{},
		responses: w,
		items:     w,
		questions: w,
		stock:     w,
	}
}

// Scenario: a submission claims 2 of a 10-stock item, then deleting the
// response brings the stock back to 10.
func TestResponseLifecycleClaimAndRestore(t *testing.T) {
	world := newFakeWorld(models.FormItem{
		ID:             "item-1",
		FormID:         "form-1",
		InitialStock:   10,
		CurrentStock:   10,
		Price:          50,
		MaxPerResponse: 2,
		IsActive:       true,
	})
	service := newWorldService(world)

	response, err := service.SubmitResponse("form-1", SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   100,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 8, world.stock["item-1"])

	err = service.DeleteResponses([]string{response.ID})
	assert.NoError(t, err)
	assert.Equal(t, 10, world.stock["item-1"])
	assert.Empty(t, world.responses)
}

// Scenario: two submissions race for the last units. Both validate
// against the same starting snapshot (stock 5, cap 3); the decrement
// clamps at zero, so the second claim is absorbed silently and the
// counter never goes negative. This locks in the clamp-to-zero policy.
func TestResponseLifecycleConcurrentClaimsClampAtZero(t *testing.T) {
	world := newFakeWorld(models.FormItem{
		ID:             "item-1",
		FormID:         "form-1",
		InitialStock:   5,
		CurrentStock:   5,
		Price:          0,
		MaxPerResponse: 3,
		IsActive:       true,
	})
	service := newWorldService(world)

	req := SubmitResponseRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "buyer@acme.test",
		OrderAmount:   100,
		Claims:        []ClaimRequest{{ItemID: "item-1", Quantity: 3}},
	}

	_, err := service.SubmitResponse("form-1", req)
	assert.NoError(t, err)
	_, err = service.SubmitResponse("form-1", req)
	assert.NoError(t, err)

	assert.Equal(t, 0, world.stock["item-1"])
	assert.GreaterOrEqual(t, world.stock["item-1"], 0)
}

func TestDeleteResponsesNoMutationOnEmptySet(t *testing.T) {
	world := newFakeWorld(models.FormItem{
		ID:           "item-1",
		FormID:       "form-1",
		InitialStock: 5,
		CurrentStock: 5,
		IsActive:     true,
	})
	service := newWorldService(world)

	err := service.DeleteResponses([]string{})

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 5, world.stock["item-1"])
}
