package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInitData = errors.New("invalid telegram init data")
	ErrInitDataExpired = errors.New("telegram init data expired")
)

// TelegramUser is the user object carried in WebApp init data.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyInitData checks the WebApp init data signature against the bot token
// and returns the signed user. Data older than maxAge is refused; zero maxAge
// skips the age check.
func VerifyInitData(botToken, initData string, maxAge time.Duration, now time.Time) (TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return TelegramUser{}, ErrInvalidInitData
	}
	hash := strings.ToLower(values.Get("hash"))
	if hash == "" {
		return TelegramUser{}, ErrInvalidInitData
	}
	if !hmac.Equal([]byte(hash), []byte(initDataHash(botToken, values))) {
		return TelegramUser{}, ErrInvalidInitData
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return TelegramUser{}, ErrInvalidInitData
	}
	if maxAge > 0 && now.Sub(time.Unix(authDate, 0)) > maxAge {
		return TelegramUser{}, ErrInitDataExpired
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return TelegramUser{}, ErrInvalidInitData
	}
	return user, nil
}

// initDataHash is hex(HMAC_SHA256(HMAC_SHA256("WebAppData", token), data-check-string)),
// the data-check-string being every field but hash as sorted key=value lines.
func initDataHash(botToken string, values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignInitData encodes values as init data signed for botToken, the way
// Telegram hands it to a WebApp.
func SignInitData(botToken string, values url.Values) string {
	signed := url.Values{}
	for k, v := range values {
		if k != "hash" {
			signed[k] = v
		}
	}
	signed.Set("hash", initDataHash(botToken, signed))
	return signed.Encode()
}
