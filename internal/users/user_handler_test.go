package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"giftforms/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes goqu.Record) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("ownerID", 1)
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		payload        models.CreateUserRequest
		setupMock      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.CreateUserRequest{
				Username: "owner",
				Password: "secret123",
				Fullname: "Form Owner",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("PersistUser", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "repository failure",
			payload: models.CreateUserRequest{
				Username: "owner",
				Password: "secret123",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("PersistUser", mock.Anything, mock.Anything).Return(errors.New("duplicate username"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			handler := NewHandler(mockRepo)

			c, w := setupTestContext()
			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetUser", 1).Return(&models.User{ID: 1, Username: "owner"}, nil)
	handler := NewHandler(mockRepo)

	c, w := setupTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/users/me", nil)

	handler.GetCurrentUser(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "owner", user.Username)
}
