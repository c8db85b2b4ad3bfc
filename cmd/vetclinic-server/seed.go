package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/vetclinic/vetclinic/internal/domain/breed"
	"github.com/vetclinic/vetclinic/internal/domain/client"
	"github.com/vetclinic/vetclinic/internal/domain/medicalrecord"
	"github.com/vetclinic/vetclinic/internal/domain/patient"
	"github.com/vetclinic/vetclinic/internal/domain/procedure"
	"github.com/vetclinic/vetclinic/internal/domain/scheduling"
	"github.com/vetclinic/vetclinic/internal/domain/user"
	"github.com/vetclinic/vetclinic/internal/platform/lock"
)

// seedCmd fills the database with demo data. Everything goes through the
// domain services so the seeded rows satisfy the same rules as API input.
func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, _ := cmd.Flags().GetInt("clients")
			cfg, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()
			return runSeed(context.Background(), cfg.JWTSecret, pool, clients)
		},
	}
	cmd.Flags().Int("clients", 10, "Number of demo clients")
	return cmd
}

var seedBreeds = map[string][]string{
	breed.SpeciesDog: {"Labrador Retriever", "German Shepherd", "Beagle", "Poodle"},
	breed.SpeciesCat: {"Siamese", "Persian", "Maine Coon"},
	breed.SpeciesBird: {"Cockatiel", "Budgerigar"},
}

var seedProcedures = []procedure.CreateInput{
	{Name: "Rabies vaccine", ProcedureType: procedure.TypeVaccine, DurationMinutes: intPtr(15)},
	{Name: "Distemper vaccine", ProcedureType: procedure.TypeVaccine, DurationMinutes: intPtr(15)},
	{Name: "Spay surgery", ProcedureType: procedure.TypeSurgery, DurationMinutes: intPtr(90)},
	{Name: "Dental cleaning", ProcedureType: procedure.TypeGrooming, DurationMinutes: intPtr(45)},
	{Name: "Deworming treatment", ProcedureType: procedure.TypeDeworming, DurationMinutes: intPtr(10)},
	{Name: "Blood panel", ProcedureType: procedure.TypeTest, DurationMinutes: intPtr(30)},
}

func runSeed(ctx context.Context, jwtSecret string, pool *pgxpool.Pool, clientCount int) error {
	breedRepo := breed.NewBreedRepoPG(pool)
	breedSvc := breed.NewService(breedRepo)
	clientSvc := client.NewService(client.NewClientRepoPG(pool))
	patientSvc := patient.NewService(patient.NewPatientRepoPG(pool), breedRepo)
	userSvc := user.NewService(user.NewUserRepoPG(pool), []byte(jwtSecret))
	procedureSvc := procedure.NewService(procedure.NewProcedureRepoPG(pool))
	recordSvc := medicalrecord.NewService(medicalrecord.NewRecordRepoPG(pool))
	apptSvc := scheduling.NewService(scheduling.NewAppointmentRepoPG(pool), lock.NewPgAdvisoryLocker(pool))

	faker := gofakeit.New(0)

	// Staff: two veterinarians, an assistant and an admin.
	var vets []*user.User
	for i := 0; i < 2; i++ {
		license := fmt.Sprintf("VET-%05d", faker.Number(10000, 99999))
		u, err := userSvc.CreateUser(ctx, user.CreateInput{
			Email:         faker.Email(),
			Password:      "changeme123",
			Name:          "Dr. " + faker.Name(),
			Role:          user.RoleVeterinarian,
			LicenseNumber: &license,
		})
		if err != nil {
			return fmt.Errorf("seed veterinarian: %w", err)
		}
		vets = append(vets, u)
	}
	for _, role := range []string{user.RoleAssistant, user.RoleAdmin} {
		if _, err := userSvc.CreateUser(ctx, user.CreateInput{
			Email:    faker.Email(),
			Password: "changeme123",
			Name:     faker.Name(),
			Role:     role,
		}); err != nil {
			return fmt.Errorf("seed %s: %w", role, err)
		}
	}

	// Breed catalog.
	breedsBySpecies := make(map[string][]*breed.Breed)
	for species, names := range seedBreeds {
		for _, name := range names {
			b, err := breedSvc.CreateBreed(ctx, breed.CreateInput{Species: species, Name: name})
			if err != nil {
				return fmt.Errorf("seed breed %q: %w", name, err)
			}
			breedsBySpecies[species] = append(breedsBySpecies[species], b)
		}
	}

	// Procedure catalog.
	for _, in := range seedProcedures {
		if _, err := procedureSvc.CreateProcedure(ctx, in); err != nil {
			return fmt.Errorf("seed procedure %q: %w", in.Name, err)
		}
	}

	// Clients, each with one or two pets.
	slot := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	for i := 0; i < clientCount; i++ {
		email := faker.Email()
		c, err := clientSvc.CreateClient(ctx, client.CreateInput{
			Name:  faker.Name(),
			Email: &email,
			Phone: faker.Phone(),
		})
		if err != nil {
			return fmt.Errorf("seed client: %w", err)
		}

		for j := 0; j < faker.Number(1, 2); j++ {
			species := faker.RandomString([]string{breed.SpeciesDog, breed.SpeciesCat, breed.SpeciesBird})
			var breedID *uuid.UUID
			if options := breedsBySpecies[species]; len(options) > 0 {
				breedID = &options[faker.Number(0, len(options)-1)].ID
			}
			weight := float64(faker.Number(2, 40))
			p, err := patientSvc.CreatePatient(ctx, patient.CreateInput{
				Name:     faker.PetName(),
				Species:  species,
				BreedID:  breedID,
				WeightKg: &weight,
				ClientID: c.ID,
			})
			if err != nil {
				return fmt.Errorf("seed patient: %w", err)
			}

			vet := vets[faker.Number(0, len(vets)-1)]
			if _, err := apptSvc.CreateAppointment(ctx, scheduling.CreateInput{
				PatientID:      &p.ID,
				ClientID:       &c.ID,
				VeterinarianID: vet.ID,
				StartTime:      slot,
				EndTime:        slot.Add(30 * time.Minute),
				Reason:         "Routine checkup for " + p.Name,
			}); err != nil {
				return fmt.Errorf("seed appointment: %w", err)
			}
			slot = slot.Add(time.Hour)

			if _, err := recordSvc.CreateRecord(ctx, medicalrecord.CreateInput{
				PatientID:      p.ID,
				VeterinarianID: vet.ID,
				Diagnosis:      "Healthy on general examination",
				WeightAtVisit:  &weight,
			}); err != nil {
				return fmt.Errorf("seed medical record: %w", err)
			}
		}
	}

	fmt.Printf("Seeded %d clients with pets, appointments and records.\n", clientCount)
	return nil
}

func intPtr(v int) *int { return &v }
