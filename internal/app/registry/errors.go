package registry

import "errors"

var (
	ErrVoterExists          = errors.New("eleitor ja cadastrado com este email ou documento")
	ErrAdminExists          = errors.New("usuario administrador ja existe")
	ErrInvalidCredentials   = errors.New("credenciais invalidas")
	ErrEmailAlreadyVerified = errors.New("email ja verificado")
	ErrOTPMissing           = errors.New("nenhum codigo de verificacao pendente")
	ErrOTPInvalid           = errors.New("codigo de verificacao invalido")
	ErrOTPExpired           = errors.New("codigo de verificacao expirado")
	ErrInvalidRegistration  = errors.New("cadastro invalido")
	ErrInvalidElection      = errors.New("eleicao invalida")
	ErrInvalidCandidateData = errors.New("dados de candidato invalidos")
	ErrCandidateNotFound    = errors.New("candidato nao encontrado")
)
