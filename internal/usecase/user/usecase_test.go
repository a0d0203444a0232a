package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	svc := New(mockRepo, zaptest.NewLogger(t))
	return svc, mockRepo
}

func strPtr(s string) *string { return &s }

func input(name, email *string) UserInput {
	return UserInput{Name: name, Email: email}
}

// ==================== VALIDATION ====================

func TestValidateInput_RuleOrder(t *testing.T) {
	svc, _ := setupTestService(t)
	long := strings.Repeat("a", 51)

	tests := []struct {
		name    string
		in      UserInput
		wantMsg string
	}{
		{"both missing", input(nil, nil), MsgRequired},
		{"name missing", input(nil, strPtr("ana@example.com")), MsgRequired},
		{"email empty string", input(strPtr("Ana"), strPtr("")), MsgRequired},
		{"name blank", input(strPtr("   "), strPtr("ana@example.com")), MsgEmpty},
		{"email blank", input(strPtr("Ana"), strPtr("\t ")), MsgEmpty},
		{"name too long", input(strPtr(long), strPtr("ana@example.com")), MsgTooLong},
		{"email too long", input(strPtr("Ana"), strPtr(long+"@example.com")), MsgTooLong},
		{"bad email", input(strPtr("Ana"), strPtr("ana.example.com")), MsgInvalidEmail},
		{"email with inner space", input(strPtr("Ana"), strPtr("an a@example.com")), MsgInvalidEmail},
		{"required wins over length", input(strPtr(long), nil), MsgRequired},
		{"empty wins over length", input(strPtr(long), strPtr("  ")), MsgEmpty},
		{"empty wins over email format", input(strPtr(" "), strPtr("bad")), MsgEmpty},
		{"length wins over email format", input(strPtr(long), strPtr("bad")), MsgTooLong},
		{"padding counts toward length", input(strPtr(" "+strings.Repeat("a", 50)), strPtr("a@b.co")), MsgTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(svc.validate, tt.in)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateInput_Boundaries(t *testing.T) {
	svc, _ := setupTestService(t)

	name50 := strings.Repeat("n", 50)
	email50 := strings.Repeat("e", 50-len("@example.com")) + "@example.com"
	require.Len(t, email50, 50)

	assert.NoError(t, validateInput(svc.validate, input(strPtr(name50), strPtr(email50))))
	assert.Error(t, validateInput(svc.validate, input(strPtr(name50+"n"), strPtr(email50))))
	assert.Error(t, validateInput(svc.validate, input(strPtr(name50), strPtr("e"+email50))))
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{UserInput: input(strPtr("  Ana  "), strPtr("ana@example.com"))}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Ana" && u.Email == "ana@example.com" && u.ID == 0
	})).Return(&domain.User{ID: 1, Name: "Ana", Email: "ana@example.com"}, nil)

	resp, err := svc.CreateUser(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "Ana", Email: "ana@example.com"}, resp)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NeverReachesStorage(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	resp, err := svc.CreateUser(context.Background(), CreateUserRequest{UserInput: input(strPtr("Ana"), strPtr("invalid"))})

	assert.Nil(t, resp)
	assert.EqualError(t, err, MsgInvalidEmail)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_Conflict(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).
		Return(nil, pkgerrors.NewAlreadyExistsError("user", "email already exists"))

	resp, err := svc.CreateUser(ctx, CreateUserRequest{UserInput: input(strPtr("Ana"), strPtr("ana@example.com"))})

	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_StorageFailure(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).
		Return(nil, pkgerrors.NewInternalError("failed to create user", errors.New("connection reset")))

	_, err := svc.CreateUser(ctx, CreateUserRequest{UserInput: input(strPtr("Ana"), strPtr("ana@example.com"))})

	require.Error(t, err)
	assert.Equal(t, 500, pkgerrors.StatusOf(err))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 1, Name: "Ana", Email: "ana@example.com"},
		{ID: 2, Name: "Bo", Email: "bo@example.com"},
	}, nil)

	users, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, User{ID: 2, Name: "Bo", Email: "bo@example.com"}, users[1])
}

func TestListUsers_Empty(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	users, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListUsers_Error(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, pkgerrors.NewInternalError("failed to list users", errors.New("timeout")))

	users, err := svc.ListUsers(ctx)

	assert.Nil(t, users)
	assert.Error(t, err)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := UpdateUserRequest{ID: 1, UserInput: input(strPtr("Ana B "), strPtr("anab@example.com"))}

	mockRepo.On("Update", ctx, &domain.User{ID: 1, Name: "Ana B", Email: "anab@example.com"}).
		Return(&domain.User{ID: 1, Name: "Ana B", Email: "anab@example.com"}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Ana B", resp.Name)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

	resp, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: 42, UserInput: input(strPtr("Ana"), strPtr("ana@example.com"))})

	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUpdateUser_ValidationError(t *testing.T) {
	svc, mockRepo := setupTestService(t)

	_, err := svc.UpdateUser(context.Background(), UpdateUserRequest{ID: 1, UserInput: input(strPtr("Ana"), nil)})

	assert.EqualError(t, err, MsgRequired)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(nil)

	assert.NoError(t, svc.DeleteUser(ctx, DeleteUserRequest{ID: 1}))
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(7)).Return(pkgerrors.NewNotFoundError("user", "user not found"))

	err := svc.DeleteUser(ctx, DeleteUserRequest{ID: 7})
	assert.True(t, pkgerrors.IsNotFound(err))
}

// ==================== PARSE ID ====================

func TestParseID(t *testing.T) {
	for _, raw := range []string{"1", "42", "-3", "0"} {
		_, err := ParseID(raw)
		assert.NoError(t, err, raw)
	}

	for _, raw := range []string{"", "abc", "1.5", "1e3", "12abc", "99999999999999999999"} {
		_, err := ParseID(raw)
		require.Error(t, err, raw)
		assert.Equal(t, MsgInvalidID, err.Error())
		assert.True(t, pkgerrors.IsValidation(err))
	}
}
