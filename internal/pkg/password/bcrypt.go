package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Cost é o fator de custo fixo do bcrypt.
const Cost = 10

// ErrTooLong é retornado quando a senha excede o limite de 72 bytes do bcrypt.
var ErrTooLong = bcrypt.ErrPasswordTooLong

// ErrMismatch indica que a senha não corresponde ao hash armazenado.
var ErrMismatch = errors.New("senha não corresponde ao hash")

// Hash gera o segredo armazenável a partir da senha em texto puro.
// O salt aleatório embutido faz com que duas chamadas com a mesma senha produzam hashes diferentes.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}
	return string(hashed), nil
}

// Compare verifica a senha em texto puro contra o hash armazenado.
// Qualquer divergência (incluindo hash corrompido) retorna ErrMismatch.
func Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// CompareDummy executa uma comparação contra um hash fixo para igualar o custo
// do caminho "e-mail desconhecido" ao do caminho "senha incorreta". Sempre retorna ErrMismatch.
func CompareDummy(plain string) error {
	dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), Cost)
		if err == nil {
			dummyHash = string(h)
		}
	})
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
	return ErrMismatch
}
