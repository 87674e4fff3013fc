package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicvoice-be/apperr"
	"civicvoice-be/models"
	authUtils "civicvoice-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSecret = []byte("test-secret")

type userResolver struct {
	users map[primitive.ObjectID]*models.User
}

func (r *userResolver) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return u, nil
}

type deptResolver struct {
	departments map[primitive.ObjectID]*models.Department
}

func (r *deptResolver) Get(_ context.Context, id primitive.ObjectID) (*models.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Department not found")
	}
	return d, nil
}

func newAuthRouter(users *userResolver, departments *deptResolver, extra ...gin.HandlerFunc) (*gin.Engine, *Identity) {
	gin.SetMode(gin.TestMode)
	captured := &Identity{}

	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(testSecret, users, departments)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		*captured = id
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", handlers...)
	return r, captured
}

func doGet(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthResolvesCitizen(t *testing.T) {
	userID := primitive.NewObjectID()
	users := &userResolver{users: map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Mobile: "9876543210"},
	}}
	r, captured := newAuthRouter(users, &deptResolver{})

	token, err := authUtils.GenerateToken(userID.Hex(), models.RoleCitizen, testSecret)
	require.NoError(t, err)

	w := doGet(t, r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.Citizen)
	assert.Nil(t, captured.Department)
	assert.False(t, captured.IsStaff())
	assert.Equal(t, "9876543210", captured.Citizen.Mobile)
}

func TestAuthResolvesDepartment(t *testing.T) {
	deptID := primitive.NewObjectID()
	departments := &deptResolver{departments: map[primitive.ObjectID]*models.Department{
		deptID: {ID: deptID, Name: "Water Supply Department", Role: models.RoleDepartment},
	}}
	r, captured := newAuthRouter(&userResolver{}, departments)

	token, err := authUtils.GenerateToken(deptID.Hex(), models.RoleDepartment, testSecret)
	require.NoError(t, err)

	w := doGet(t, r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.Department)
	assert.Nil(t, captured.Citizen)
	assert.True(t, captured.IsStaff())
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r, _ := newAuthRouter(&userResolver{}, &deptResolver{})
	w := doGet(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadSignature(t *testing.T) {
	r, _ := newAuthRouter(&userResolver{}, &deptResolver{})

	token, err := authUtils.GenerateToken(primitive.NewObjectID().Hex(), models.RoleCitizen, []byte("wrong-secret"))
	require.NoError(t, err)

	w := doGet(t, r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsDeletedAccount(t *testing.T) {
	r, _ := newAuthRouter(&userResolver{}, &deptResolver{})

	token, err := authUtils.GenerateToken(primitive.NewObjectID().Hex(), models.RoleCitizen, testSecret)
	require.NoError(t, err)

	w := doGet(t, r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Account no longer exists")
}

func TestRequireStaffBlocksCitizens(t *testing.T) {
	userID := primitive.NewObjectID()
	users := &userResolver{users: map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Mobile: "9876543210"},
	}}
	r, _ := newAuthRouter(users, &deptResolver{}, RequireStaff())

	token, err := authUtils.GenerateToken(userID.Hex(), models.RoleCitizen, testSecret)
	require.NoError(t, err)

	w := doGet(t, r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCitizenBlocksStaff(t *testing.T) {
	deptID := primitive.NewObjectID()
	departments := &deptResolver{departments: map[primitive.ObjectID]*models.Department{
		deptID: {ID: deptID, Name: "Electricity Board", Role: models.RoleDepartment},
	}}
	r, _ := newAuthRouter(&userResolver{}, departments, RequireCitizen())

	token, err := authUtils.GenerateToken(deptID.Hex(), models.RoleDepartment, testSecret)
	require.NoError(t, err)

	w := doGet(t, r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
