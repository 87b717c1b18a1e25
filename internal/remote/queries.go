package remote

// LoginUserQuery fetches a user and their dogs by email
const LoginUserQuery = `
query loginUser($email: String!) {
  loginUser(email: $email) {
    id
    name
    email
    profileImageURL
    dogs {
      id
      name
      age
      breed
      profileImageURL
    }
  }
}`

// CreateUserMutation registers a user together with one dog
const CreateUserMutation = `
mutation CreateUser($id: ID!, $name: String!, $email: String!, $dogId: ID!, $dogName: String!, $dogAge: Int!, $dogBreed: String!) {
  createUser(
    id: $id,
    name: $name,
    email: $email,
    dogId: $dogId,
    dogName: $dogName,
    dogAge: $dogAge,
    dogBreed: $dogBreed
  ) {
    id
    name
    email
    dogs {
      id
      name
      age
      breed
    }
  }
}`
