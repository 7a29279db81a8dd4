package repository

// RecipesPageSize is the number of recipes fetched per listing page.
const RecipesPageSize = 9

const recipeCardFields = `
        id
        title
        slug
        featuredImage {
          node {
            sourceUrl
          }
        }
        categories {
          nodes {
            name
            slug
          }
        }
        recipeFields {
          summary
        }`

const allRecipesQuery = `
query AllRecipes($first: Int!, $after: String) {
  recipes(first: $first, after: $after, where: { orderby: { field: DATE, order: DESC } }) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {` + recipeCardFields + `
    }
  }
}`

const recipeBySlugQuery = `
query GetRecipeBySlug($id: ID!) {
  recipe(id: $id, idType: SLUG) {
    title
    slug
    date
    content
    databaseId
    comments {
      nodes {
        id
        content
        date
        author {
          node {
            name
            avatar {
              url
            }
          }
        }
      }
    }
    featuredImage {
      node {
        sourceUrl
      }
    }
    categories {
      nodes {
        name
        slug
      }
    }
    recipeFields {
      summary
      cookingTime
      prepTime
      servings
      difficulty
      ingredients
      instructions
      notes
      rating
      ratingCount
      section1
      section2
      totaltime
      course
      cuisine
      authorname
      equipment
      faq
    }
  }
}`

const featuredRecipesQuery = `
query GetFeaturedRecipes {
  recipes(where: { tag: "featured" }) {
    nodes {` + recipeCardFields + `
    }
  }
}`

const allCategoriesQuery = `
query GetAllCategories {
  categories(where: { hideEmpty: true }) {
    nodes {
      name
      slug
      count
      categoryFields {
        categoryImage {
          node {
            sourceUrl
          }
        }
      }
    }
  }
}`

const recipesByCategoryQuery = `
query GetRecipesByCategory($categoryName: String!, $slug: ID!) {
  recipes(where: { categoryName: $categoryName }) {
    nodes {` + recipeCardFields + `
    }
  }
  category(id: $slug, idType: SLUG) {
    name
  }
}`

const searchRecipesQuery = `
query SearchRecipes($search: String!) {
  recipes(where: { search: $search }) {
    nodes {` + recipeCardFields + `
    }
  }
}`

const pageBySlugQuery = `
query GetPageBySlug($id: ID!) {
  page(id: $id, idType: URI) {
    title
    pageContent {
      section1Content
      section1Image {
        node {
          sourceUrl
          altText
        }
      }
      section2Content
      section2ImagePosition
      section2Image {
        node {
          sourceUrl
          altText
        }
      }
      section3Content
    }
  }
}`

const createCommentMutation = `
mutation CreateComment($input: CreateCommentInput!) {
  createComment(input: $input) {
    success
    comment {
      id
    }
  }
}`
