package handlers

import (
	"database/sql"
	"net/http"
	"time"

	intconfig "aerodesk/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the user payload returned on login.
type AuthUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if intconfig.DB == nil {
		RespondError(c, http.StatusInternalServerError, "database belum terhubung", nil)
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)

	err := intconfig.DB.QueryRow(`
        SELECT id, name, username, email, phone, password_hash, role, status
        FROM users
        WHERE email = ? OR username = ?
    `, req.Email, req.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.Phone,
		&passwordHash,
		&user.Role,
		&user.Status,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email/username atau password salah"})
		} else {
			RespondError(c, http.StatusInternalServerError, "gagal query user", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email/username atau password salah"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal membuat token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if intconfig.DB == nil {
		RespondError(c, http.StatusInternalServerError, "database belum terhubung", nil)
		return
	}

	var exists int
	err := intconfig.DB.QueryRow(`
        SELECT COUNT(*)
        FROM users
        WHERE email = ? OR username = ?
    `, req.Email, req.Username).Scan(&exists)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal cek user", err)
		return
	}
	if exists > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email atau username sudah terdaftar"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal meng-hash password", err)
		return
	}

	res, err := intconfig.DB.Exec(`
        INSERT INTO users (name, username, email, phone, password_hash, role, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, 'agent', 'active', NOW(), NOW())
    `, req.Name, req.Username, req.Email, req.Phone, string(hash))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal menyimpan user", err)
		return
	}

	id, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "registrasi berhasil",
		"user": gin.H{
			"id":       id,
			"name":     req.Name,
			"username": req.Username,
			"email":    req.Email,
			"phone":    req.Phone,
			"role":     "agent",
			"status":   "active",
		},
	})
}
