package jwtx_test

import (
	"testing"

	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestEdDSASigner(t *testing.T) {
	key, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewEdDSASigner("kid-1", key)
	require.NoError(t, err)
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "kid-1", signer.KID())

	jwk := signer.PublicJWK()
	require.Equal(t, "OKP", jwk.Kty)
	require.Equal(t, "Ed25519", jwk.Crv)
	require.Equal(t, "sig", jwk.Use)

	pub, err := jwk.PublicKey()
	require.NoError(t, err)
	require.Equal(t, key.Public(), pub)

	_, err = jwtx.NewEdDSASigner("", key)
	require.Error(t, err)
	_, err = jwtx.NewEdDSASigner("kid-1", key[:10])
	require.Error(t, err)
}

func TestKeySet(t *testing.T) {
	key, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewEdDSASigner("kid-a", key)
	require.NoError(t, err)

	ks := jwtx.NewKeySet()
	require.False(t, ks.IsReady())
	require.NoError(t, ks.AddSigner(signer))
	require.True(t, ks.IsReady())

	t.Run("duplicate kid", func(t *testing.T) {
		require.Error(t, ks.AddSigner(signer))
	})

	t.Run("lookup", func(t *testing.T) {
		_, err := ks.Get("kid-a")
		require.NoError(t, err)
		_, err = ks.Get("missing")
		require.ErrorIs(t, err, jwtx.ErrNoKey)
	})

	t.Run("unsupported jwk", func(t *testing.T) {
		require.Error(t, ks.AddJWK(jwtx.JWK{Kty: "RSA", Kid: "rsa"}))
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		snap := ks.PublicJWKS()
		snap.Keys[0].Kid = "changed"
		require.Equal(t, "kid-a", ks.PublicJWKS().Keys[0].Kid)
	})
}
