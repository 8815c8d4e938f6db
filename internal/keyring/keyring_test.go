package keyring

import (
	"errors"
	"testing"

	zkeyring "github.com/zalando/go-keyring"
)

func TestMain(m *testing.M) {
	// In-memory keyring; tests never touch the real secret service.
	zkeyring.MockInit()
	m.Run()
}

func TestCredentialsRoundTrip(t *testing.T) {
	if err := DeleteCredentials(); err != nil && !errors.Is(err, ErrNotFound) {
		t.Fatal(err)
	}

	if _, err := GetCredentials(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	creds := Credentials{AccessKey: "AKIATEST", SecretKey: "s3cret"}
	if err := SetCredentials(creds); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	got, err := GetCredentials()
	if err != nil {
		t.Fatalf("GetCredentials: %v", err)
	}
	if got != creds {
		t.Errorf("got %+v, want %+v", got, creds)
	}

	if err := DeleteCredentials(); err != nil {
		t.Fatalf("DeleteCredentials: %v", err)
	}
	if _, err := GetCredentials(); !errors.Is(err, ErrNotFound) {
		t.Errorf("credentials survived deletion: %v", err)
	}
}

func TestSetCredentialsRequiresAccessKey(t *testing.T) {
	if err := SetCredentials(Credentials{SecretKey: "only-secret"}); err == nil {
		t.Error("empty access key should be rejected")
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable() {
		t.Error("mocked keyring should report available")
	}
}

func TestDeleteMissingCredentials(t *testing.T) {
	_ = DeleteCredentials()
	if err := DeleteCredentials(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
