package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"pet-hospital-client/internal/adapters/api/hospital"
	tokenfile "pet-hospital-client/internal/adapters/tokenstore/file"
	"pet-hospital-client/internal/config"
	"pet-hospital-client/internal/domain/dashboard"
	"pet-hospital-client/internal/domain/records"
	"pet-hospital-client/internal/domain/session"
	"pet-hospital-client/internal/platform/logger"
)

func main() {
	cmd := flag.String("cmd", "list", "Command: login|logout|register|list|show|add|edit|delete")
	username := flag.String("username", "", "Username (login/register)")
	password := flag.String("password", "", "Password (login/register)")
	email := flag.String("email", "", "Email (register)")
	id := flag.String("id", "", "Record id (show/edit/delete)")
	petName := flag.String("pet", "", "Pet name")
	ownerName := flag.String("owner", "", "Owner name")
	contact := flag.String("contact", "", "Contact number (10 digits)")
	dob := flag.String("dob", "", "Date of birth (YYYY-MM-DD)")
	weight := flag.String("weight", "", "Weight (0-100, up to 2 decimals)")
	history := flag.String("history", "", "Medical history")
	photoPath := flag.String("photo", "", "Path to photo file (optional)")
	serverFlag := flag.String("server", "", "Override API base URL")
	flag.Parse()

	cfg := config.Load()
	if *serverFlag != "" {
		cfg.APIBaseURL = *serverFlag
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	client, err := hospital.NewClient(hospital.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
	}, log)
	if err != nil {
		fail(err)
	}

	storage, err := tokenfile.New(cfg.TokenPath)
	if err != nil {
		fail(err)
	}

	sess := session.NewStore(storage, client, log)
	vm := dashboard.NewViewModel(sess, client, log)
	ctx := context.Background()

	switch *cmd {
	case "login":
		if err := sess.Login(ctx, *username, *password); err != nil {
			fail(err)
		}
		fmt.Println("Logged in.")

	case "logout":
		if err := sess.Logout(); err != nil {
			fail(err)
		}
		fmt.Println("Logged out.")

	case "register":
		if err := sess.Register(ctx, *username, *password, *email); err != nil {
			fail(err)
		}
		fmt.Println("Register Complete! Please Login")

	case "list":
		if err := vm.Load(ctx); err != nil {
			fail(err)
		}
		printList(vm.Records())

	case "show":
		rec, err := findRecord(ctx, vm, *id)
		if err != nil {
			fail(err)
		}
		vm.SelectForView(rec)
		printRecord(rec)

	case "add":
		rec := records.Record{
			PetName:        *petName,
			OwnerName:      *ownerName,
			ContactNumber:  *contact,
			DateOfBirth:    *dob,
			Weight:         *weight,
			MedicalHistory: *history,
		}
		if *photoPath != "" {
			p, err := loadPhoto(*photoPath)
			if err != nil {
				fail(err)
			}
			rec.SetPendingPhoto(p)
		}
		created, err := vm.SubmitNew(ctx, rec)
		if err != nil {
			failValidation(vm, err)
		}
		fmt.Println("Created:")
		printRecord(created)

	case "edit":
		rec, err := findRecord(ctx, vm, *id)
		if err != nil {
			fail(err)
		}
		vm.SelectForEdit(rec)
		applyIfSet(vm, records.FieldPetName, *petName)
		applyIfSet(vm, records.FieldOwnerName, *ownerName)
		applyIfSet(vm, records.FieldContactNumber, *contact)
		applyIfSet(vm, records.FieldDateOfBirth, *dob)
		applyIfSet(vm, records.FieldWeight, *weight)
		applyIfSet(vm, records.FieldMedicalHistory, *history)
		if *photoPath != "" {
			p, err := loadPhoto(*photoPath)
			if err != nil {
				fail(err)
			}
			if err := vm.AttachPhoto(p); err != nil {
				fail(err)
			}
		}
		if err := vm.SaveDraft(ctx); err != nil {
			failValidation(vm, err)
		}
		fmt.Println("Pet details updated successfully!")

	case "delete":
		if *id == "" {
			fail(errors.New("--id required"))
		}
		vm.RequestDelete(*id)
		if !confirm(*id) {
			vm.CancelDelete()
			fmt.Println("Cancelled.")
			return
		}
		if err := vm.ConfirmDelete(ctx); err != nil {
			fail(err)
		}
		fmt.Println("Deleted.")

	default:
		fail(fmt.Errorf("unknown command %q", *cmd))
	}
}

func findRecord(ctx context.Context, vm *dashboard.ViewModel, id string) (records.Record, error) {
	if id == "" {
		return records.Record{}, errors.New("--id required")
	}
	if err := vm.Load(ctx); err != nil {
		return records.Record{}, err
	}
	for _, r := range vm.Records() {
		if r.ID == id {
			return r, nil
		}
	}
	return records.Record{}, fmt.Errorf("record %s not found", id)
}

func applyIfSet(vm *dashboard.ViewModel, field, value string) {
	if value == "" {
		return
	}
	if err := vm.ApplyFieldEdit(field, value); err != nil {
		fail(err)
	}
}

func loadPhoto(path string) (*records.PendingPhoto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &records.PendingPhoto{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func confirm(id string) bool {
	fmt.Printf("Delete record %s? [y/N]: ", id)
	var answer string
	_, _ = fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}

func printList(list []records.Record) {
	if len(list) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, r := range list {
		fmt.Printf("%s  %-12s %-12s %s\n", r.ID, r.PetName, r.OwnerName, r.CreatedDate)
	}
}

func printRecord(r records.Record) {
	fmt.Printf("id:             %s\n", r.ID)
	fmt.Printf("petName:        %s\n", r.PetName)
	fmt.Printf("ownerName:      %s\n", r.OwnerName)
	fmt.Printf("contactNumber:  %s\n", r.ContactNumber)
	fmt.Printf("dateOfBirth:    %s\n", r.DateOfBirth)
	fmt.Printf("weight:         %s\n", r.Weight)
	fmt.Printf("medicalHistory: %s\n", r.MedicalHistory)
	if r.PhotoRef != "" {
		fmt.Printf("petPhoto:       %s\n", r.PhotoRef)
	}
	fmt.Printf("createdDate:    %s\n", r.CreatedDate)
}

func failValidation(vm *dashboard.ViewModel, err error) {
	if errors.Is(err, dashboard.ErrValidation) {
		for field, msg := range vm.FieldErrors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		os.Exit(1)
	}
	fail(err)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
