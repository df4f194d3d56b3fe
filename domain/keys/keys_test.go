package keys

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

func testSeed(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func ed25519Key(t *testing.T, seedByte byte) PrivateKey {
	t.Helper()
	sk, err := PrivateKeyFromBytesEd25519(testSeed(seedByte))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesEd25519: %+v", err)
	}
	return sk
}

func TestEd25519SignVerify(t *testing.T) {
	sk := ed25519Key(t, 0x01)
	pub, err := sk.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %+v", err)
	}
	if !pub.IsEd25519() {
		t.Fatalf("expected an Ed25519 public key")
	}
	if len(pub.BytesRaw()) != 32 {
		t.Fatalf("expected a 32-byte raw key, got %d bytes", len(pub.BytesRaw()))
	}

	message := []byte("canonical body bytes")
	sig, err := sk.Sign(message)
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("expected a 64-byte signature, got %d bytes", len(sig))
	}
	if !pub.Verify(message, sig) {
		t.Fatalf("signature did not verify")
	}
	if pub.Verify([]byte("different bytes"), sig) {
		t.Fatalf("signature verified against the wrong message")
	}
}

func TestEd25519Deterministic(t *testing.T) {
	first := ed25519Key(t, 0x07)
	second := ed25519Key(t, 0x07)
	firstPub, _ := first.PublicKey()
	secondPub, _ := second.PublicKey()
	if !firstPub.Equal(secondPub) {
		t.Fatalf("same seed produced different keys: %s vs %s", firstPub, secondPub)
	}

	sigA, err := first.Sign([]byte("msg"))
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	sigB, err := second.Sign([]byte("msg"))
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	if !bytes.Equal(sigA, sigB) {
		t.Fatalf("ed25519 signing is not deterministic")
	}
}

func TestECDSASignVerify(t *testing.T) {
	sk, err := PrivateKeyFromBytesECDSA(testSeed(0x11))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesECDSA: %+v", err)
	}
	pub, err := sk.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %+v", err)
	}
	if !pub.IsECDSA() {
		t.Fatalf("expected an ECDSA public key")
	}
	if len(pub.BytesRaw()) != 33 {
		t.Fatalf("expected a 33-byte compressed key, got %d bytes", len(pub.BytesRaw()))
	}

	message := []byte("canonical body bytes")
	sig, err := sk.Sign(message)
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("expected a 64-byte signature, got %d bytes", len(sig))
	}
	if !pub.Verify(message, sig) {
		t.Fatalf("signature did not verify")
	}
	if pub.Verify([]byte("different bytes"), sig) {
		t.Fatalf("signature verified against the wrong message")
	}

	// Round trip the compressed encoding.
	parsed, err := PublicKeyFromBytesECDSA(pub.BytesRaw())
	if err != nil {
		t.Fatalf("PublicKeyFromBytesECDSA: %+v", err)
	}
	if !parsed.Equal(pub) {
		t.Fatalf("compressed key round trip changed the key")
	}
}

func TestInvalidKeyMaterial(t *testing.T) {
	if _, err := PrivateKeyFromBytesEd25519(make([]byte, 31)); err == nil {
		t.Errorf("expected an error for a short Ed25519 key")
	}
	if _, err := PublicKeyFromBytesEd25519(make([]byte, 33)); err == nil {
		t.Errorf("expected an error for a long Ed25519 public key")
	}
	if _, err := PrivateKeyFromBytesECDSA(make([]byte, 16)); err == nil {
		t.Errorf("expected an error for a short ECDSA key")
	}
	if _, err := PublicKeyFromBytesECDSA(make([]byte, 33)); err == nil {
		t.Errorf("expected an error for an invalid compressed point")
	}
}

func TestSignerThreshold(t *testing.T) {
	skA, skB, skC := ed25519Key(t, 0x01), ed25519Key(t, 0x02), ed25519Key(t, 0x03)
	pubA, _ := skA.PublicKey()
	pubB, _ := skB.PublicKey()
	pubC, _ := skC.PublicKey()

	twoOfThree := KeyFromThreshold(2,
		KeyFromPublicKey(pubA), KeyFromPublicKey(pubB), KeyFromPublicKey(pubC))

	signer, err := NewSigner(skA, skB)
	if err != nil {
		t.Fatalf("NewSigner: %+v", err)
	}
	message := []byte("body")

	pairs, err := signer.SignaturesFor(twoOfThree, message)
	if err != nil {
		t.Fatalf("SignaturesFor: %+v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 signatures for a 2-of-3 key, got %d", len(pairs))
	}
	for _, pair := range pairs {
		if !pair.PublicKey.Verify(message, pair.Signature) {
			t.Fatalf("signature by %s did not verify", pair.PublicKey)
		}
	}

	threeOfThree := KeyFromThreshold(3,
		KeyFromPublicKey(pubA), KeyFromPublicKey(pubB), KeyFromPublicKey(pubC))
	if _, err := signer.SignaturesFor(threeOfThree, message); !errors.Is(err, ErrMissingKeyMaterial) {
		t.Fatalf("expected ErrMissingKeyMaterial for a 3-of-3 key, got %+v", err)
	}

	allRequired := KeyFromList(
		KeyFromPublicKey(pubA), KeyFromPublicKey(pubC))
	if _, err := signer.SignaturesFor(allRequired, message); !errors.Is(err, ErrMissingKeyMaterial) {
		t.Fatalf("expected ErrMissingKeyMaterial for an unsatisfiable list, got %+v", err)
	}
}

func TestSignerDeduplicates(t *testing.T) {
	sk := ed25519Key(t, 0x05)
	pub, _ := sk.PublicKey()

	// The same key appears in two branches of the structure.
	key := KeyFromList(
		KeyFromPublicKey(pub),
		KeyFromThreshold(1, KeyFromPublicKey(pub)))

	signer, err := NewSigner(sk)
	if err != nil {
		t.Fatalf("NewSigner: %+v", err)
	}
	pairs, err := signer.SignaturesFor(key, []byte("body"))
	if err != nil {
		t.Fatalf("SignaturesFor: %+v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 deduplicated signature, got %d", len(pairs))
	}
}

func TestSignerNestedStructure(t *testing.T) {
	skA, skB := ed25519Key(t, 0x0a), ed25519Key(t, 0x0b)
	pubA, _ := skA.PublicKey()
	pubB, _ := skB.PublicKey()

	nested := KeyFromList(
		KeyFromPublicKey(pubA),
		KeyFromThreshold(1,
			KeyFromPublicKey(pubB),
			KeyFromPublicKey(pubA)))

	signer, err := NewSigner(skA, skB)
	if err != nil {
		t.Fatalf("NewSigner: %+v", err)
	}
	pairs, err := signer.SignaturesFor(nested, []byte("body"))
	if err != nil {
		t.Fatalf("SignaturesFor: %+v", err)
	}
	// A signs the outer list; the inner 1-of-2 is satisfied by B first.
	if len(pairs) != 2 {
		t.Fatalf("expected 2 signatures, got %d", len(pairs))
	}
}

func TestKeyWireRoundTrip(t *testing.T) {
	skA, skB := ed25519Key(t, 0x01), ed25519Key(t, 0x02)
	pubA, _ := skA.PublicKey()
	pubB, _ := skB.PublicKey()
	skEC, err := PrivateKeyFromBytesECDSA(testSeed(0x03))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesECDSA: %+v", err)
	}
	pubEC, _ := skEC.PublicKey()

	tests := []struct {
		name string
		key  Key
	}{
		{"single ed25519", KeyFromPublicKey(pubA)},
		{"single ecdsa", KeyFromPublicKey(pubEC)},
		{"key list", KeyFromList(KeyFromPublicKey(pubA), KeyFromPublicKey(pubB))},
		{"threshold", KeyFromThreshold(1, KeyFromPublicKey(pubA), KeyFromPublicKey(pubEC))},
		{"nested", KeyFromList(
			KeyFromPublicKey(pubA),
			KeyFromThreshold(1, KeyFromPublicKey(pubB), KeyFromPublicKey(pubEC)))},
	}
	for _, test := range tests {
		w := wire.NewWriter()
		test.key.ToWire(w)
		decoded, err := KeyFromWire(wire.NewReader(w.Encoded()))
		if err != nil {
			t.Errorf("%s: KeyFromWire: %+v", test.name, err)
			continue
		}
		reencoded := wire.NewWriter()
		decoded.ToWire(reencoded)
		if !bytes.Equal(w.Encoded(), reencoded.Encoded()) {
			t.Errorf("%s: round trip changed the encoding:\n% x\n% x",
				test.name, w.Encoded(), reencoded.Encoded())
		}
	}
}

func TestMnemonicDerivation(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %+v", err)
	}
	reparsed, err := MnemonicFromWords(m.String())
	if err != nil {
		t.Fatalf("generated mnemonic did not validate: %+v", err)
	}

	first, err := m.ToEd25519PrivateKey("")
	if err != nil {
		t.Fatalf("ToEd25519PrivateKey: %+v", err)
	}
	second, err := reparsed.ToEd25519PrivateKey("")
	if err != nil {
		t.Fatalf("ToEd25519PrivateKey: %+v", err)
	}
	firstPub, _ := first.PublicKey()
	secondPub, _ := second.PublicKey()
	if !firstPub.Equal(secondPub) {
		t.Fatalf("same phrase derived different keys")
	}

	withPassphrase, err := m.ToEd25519PrivateKey("passphrase")
	if err != nil {
		t.Fatalf("ToEd25519PrivateKey: %+v", err)
	}
	passPub, _ := withPassphrase.PublicKey()
	if passPub.Equal(firstPub) {
		t.Fatalf("passphrase did not change the derived key")
	}

	if _, err := MnemonicFromWords("not a valid phrase at all"); err == nil {
		t.Fatalf("expected an error for an invalid phrase")
	}
}
