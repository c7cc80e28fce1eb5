package ton_utils

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tonkeeper/tongo"

	"boltfarm/internal/datastore/redis_store"
	"boltfarm/internal/models"

	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
)

const (
	tonProofPrefix   = "ton-proof-item-v2/"
	tonConnectPrefix = "ton-connect"
	proofExpiration  = time.Hour
	nonceExpiration  = 6 * time.Hour
)

func nonceKey(address, nonce string) string {
	return fmt.Sprintf("%s:%s", address, nonce)
}

func SignatureVerify(pubkey ed25519.PublicKey, message, signature []byte) bool {
	return ed25519.Verify(pubkey, message, signature)
}

func ParseTonProofMessage(tp *models.TonProof) (*models.TonProofMessage, error) {
	var msg models.TonProofMessage

	addr, err := tongo.ParseAddress(tp.Address)
	if err != nil {
		return nil, err
	}
	sig, err := base64.StdEncoding.DecodeString(tp.Proof.Signature)
	if err != nil {
		return nil, err
	}

	msg.Workchain = addr.ID.Workchain
	msg.Address = addr.ID.Address[:]
	msg.Domain = tp.Proof.Domain
	msg.Timestamp = tp.Proof.Timestamp
	msg.Signature = sig
	msg.Payload = tp.Proof.Payload
	msg.StateInit = tp.Proof.StateInit
	return &msg, nil
}

func CreateMessage(message *models.TonProofMessage) ([]byte, error) {
	wc := make([]byte, 4)
	binary.BigEndian.PutUint32(wc, uint32(message.Workchain))

	ts := make([]byte, 8)
	binary.LittleEndian.PutUint64(ts, uint64(message.Timestamp))

	dl := make([]byte, 4)
	binary.LittleEndian.PutUint32(dl, message.Domain.LengthBytes)
	m := []byte(tonProofPrefix)
	m = append(m, wc...)
	m = append(m, message.Address...)
	m = append(m, dl...)
	m = append(m, []byte(message.Domain.Value)...)
	m = append(m, ts...)
	m = append(m, []byte(message.Payload)...)
	messageHash := sha256.Sum256(m)
	fullMes := []byte{0xff, 0xff}
	fullMes = append(fullMes, []byte(tonConnectPrefix)...)
	fullMes = append(fullMes, messageHash[:]...)
	res := sha256.Sum256(fullMes)
	return res[:], nil
}

// CheckProof validates a TON Connect proof against the wallet public
// key the client supplied: expiry, expected app domain, single-use
// nonce, then the ed25519 signature over the canonical message.
func CheckProof(ctx context.Context, dbRedis redis.UniversalClient, address tongo.AccountID, domain string, nonce string, publicKeyHex string, proof *models.TonProofMessage) (bool, error) {
	if len(nonce) != 12 {
		return false, errors.New("invalid nonce")
	}

	pubKey, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return false, errors.New("invalid public key")
	}

	if time.Now().After(time.Unix(proof.Timestamp, 0).Add(proofExpiration)) {
		return false, errors.New("proof has been expired")
	}

	if proof.Domain.Value != domain {
		return false, fmt.Errorf("wrong domain: %v", proof.Domain.Value)
	}

	key := nonceKey(address.String(), nonce)
	n, err := redis_store.GetProofNonce(ctx, dbRedis, key)
	if err == nil && n != "" {
		return false, errors.New("used nonce")
	}

	err = redis_store.SetProofNonce(ctx, dbRedis, key, nonce, nonceExpiration)
	if err != nil {
		return false, err
	}

	mes, err := CreateMessage(proof)
	if err != nil {
		return false, err
	}

	return SignatureVerify(pubKey, mes, proof.Signature), nil
}
