package utils // package utils provides helper functions for code generation and hashing

import (
    "crypto/rand"  // secure random number generation
    "encoding/hex" // hex encoding for session secrets
    "strings"      // joining code segments
)

// codeCharset is the alphabet used for human-typable codes.  Uppercase
// letters and digits only, so a code survives being read aloud or typed
// from a phone screen.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewGroupedCode returns a verification code of three independently
// random 4-character segments joined by dashes, e.g. "AB12-CD34-EF56".
// Codes are drawn from crypto/rand; no uniqueness is enforced here.  The
// store's unique index is the collision guard and a collision surfaces
// as a conflict error there.
func NewGroupedCode() (string, error) {
    segs := make([]string, 3)
    for i := range segs {
        s, err := randomSegment(4)
        if err != nil {
            return "", err
        }
        segs[i] = s
    }
    return strings.Join(segs, "-"), nil
}

// NewSessionSecret returns a long opaque random value suitable for
// signing sessions.  Unlike a grouped code it is never typed by a human:
// 48 random bytes, hex encoded (96 characters).
func NewSessionSecret() (string, error) {
    buf := make([]byte, 48)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// randomSegment draws n characters from codeCharset using crypto/rand.
// Bytes at or above the largest charset multiple below 256 are
// discarded, keeping every character equally likely.
func randomSegment(n int) (string, error) {
    const limit = 256 - 256%len(codeCharset) // 252 for the 36-char set
    out := make([]byte, 0, n)
    buf := make([]byte, n)
    for len(out) < n {
        if _, err := rand.Read(buf); err != nil {
            return "", err
        }
        for _, b := range buf {
            if int(b) >= limit {
                continue
            }
            out = append(out, codeCharset[int(b)%len(codeCharset)])
            if len(out) == n {
                break
            }
        }
    }
    return string(out), nil
}
