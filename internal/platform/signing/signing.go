// Package signing issues and verifies HMAC-signed playback tokens for
// episode video delivery. The signed URL grants a single user time-limited
// access to one stored video object.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Signer struct {
	Secret []byte
}

// Token is the signed triple embedded in a playback URL.
type Token struct {
	Key string
	UID string
	Exp int64
	Sig string
}

func New(secret string) *Signer {
	return &Signer{Secret: []byte(secret)}
}

func (s *Signer) Sign(videoKey, userID string, exp time.Time) Token {
	sig := s.signValue(videoKey, userID, exp.Unix())
	return Token{Key: videoKey, UID: userID, Exp: exp.Unix(), Sig: sig}
}

func (s *Signer) Verify(videoKey, userID string, exp int64, sig string) bool {
	if time.Now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(s.signValue(videoKey, userID, exp)))
}

func (s *Signer) signValue(videoKey, userID string, exp int64) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(videoKey))
	mac.Write([]byte("|"))
	mac.Write([]byte(userID))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// PlaybackURL appends the signed token to the streaming endpoint base.
func PlaybackURL(base string, tok Token) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", tok.Key)
	q.Set("uid", tok.UID)
	q.Set("exp", strconv.FormatInt(tok.Exp, 10))
	q.Set("sig", tok.Sig)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ExtractToken pulls a signed token out of request query params.
func ExtractToken(query url.Values) (Token, error) {
	tok := Token{
		Key: strings.TrimSpace(query.Get("key")),
		UID: strings.TrimSpace(query.Get("uid")),
		Sig: strings.TrimSpace(query.Get("sig")),
	}
	expStr := strings.TrimSpace(query.Get("exp"))
	if tok.Key == "" || tok.UID == "" || expStr == "" || tok.Sig == "" {
		return Token{}, fmt.Errorf("missing signed params")
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return Token{}, err
	}
	tok.Exp = exp
	return tok, nil
}
