package auth

import (
	"context"
	"errors"
	"time"

	"winehouse/internal/domain/model"
	"winehouse/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	Account model.Account  `json:"account"`
	Token   JwtAccessToken `json:"token"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済みアカウント
var ErrAccountInactive = errors.New("account is inactive")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(accountID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	accountRepo repository.AccountRepository
	verifier    PasswordVerifier
	issuer      AccessTokenIssuer
	clock       Clock
}

func NewLoginUsecase(
	accountRepo repository.AccountRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		accountRepo: accountRepo,
		verifier:    verifier,
		issuer:      issuer,
		clock:       clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	// emailでアカウント取得。存在の有無は外に漏らさない。
	account, err := u.accountRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return out, err
	}
	if account == nil {
		return out, ErrInvalidCredentials
	}

	// 停止アカウントはログイン不可
	if !account.IsActive {
		return out, ErrAccountInactive
	}

	// パスワード照合
	if ok := u.verifier.Verify(in.Password, account.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	// AccessToken発行
	now := u.clock.Now()
	accessToken, accessExp, err := u.issuer.Issue(account.ID, account.Role, now)
	if err != nil {
		return out, err
	}

	// 最終ログイン時刻更新
	account.LastLoginAt = &now
	if err := u.accountRepo.Update(ctx, account); err != nil {
		return out, err
	}

	out.Account = *account
	out.Token = JwtAccessToken{
		AccessToken: accessToken,
		ExpiresIn:   int(accessExp.Sub(now).Seconds()),
	}

	return out, nil
}
